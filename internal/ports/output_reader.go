package ports

import "epics-require/internal/types"

type OutputReaderPort interface {
	ReadReport(path string) (types.ModuleReport, error)
	ReadEnvironment(path string) ([]types.EnvVar, error)
}
