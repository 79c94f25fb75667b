package app

import (
	"github.com/spf13/afero"

	"epics-require/internal/adapters"
	"epics-require/internal/ports"
)

type Service struct {
	Fs           afero.Fs
	Env          ports.EnvironmentPort
	Loader       ports.LibraryLoaderPort
	Process      ports.ProcessPort
	OutputReader ports.OutputReaderPort
}

func NewService() Service {
	fsys := afero.NewOsFs()
	return Service{
		Fs:           fsys,
		Env:          adapters.NewProcessEnvironment(),
		Loader:       adapters.NewDlopenLoader(),
		Process:      adapters.NewExecProcessAdapter(),
		OutputReader: adapters.NewOutputReaderAdapter(fsys),
	}
}
