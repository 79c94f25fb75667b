package adapters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"epics-require/internal/ports"
	"epics-require/internal/shared"
	"epics-require/internal/types"
)

const (
	ReportFile      = "modules.yaml"
	EnvironmentFile = "env.sh"
	StartupFile     = "startup.cmd"
)

type OutputFileAdapter struct {
	Dir string
	Fs  afero.Fs
}

func NewOutputFileAdapter(fsys afero.Fs, dir string) OutputFileAdapter {
	return OutputFileAdapter{Dir: dir, Fs: fsys}
}

func (a OutputFileAdapter) WriteReport(report types.ModuleReport) error {
	path, err := a.ensurePath(ReportFile)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode module report").
			WithCause(err)
	}
	return a.write(path, data)
}

func (a OutputFileAdapter) WriteEnvironment(vars []types.EnvVar) error {
	path, err := a.ensurePath(EnvironmentFile)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, v := range vars {
		fmt.Fprintf(&b, "export %s=%s\n", v.Name, shared.ShellQuote(v.Value))
	}
	return a.write(path, []byte(b.String()))
}

func (a OutputFileAdapter) WriteStartup(lines []string) error {
	path, err := a.ensurePath(StartupFile)
	if err != nil {
		return err
	}
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	return a.write(path, []byte(content))
}

func (a OutputFileAdapter) write(path string, data []byte) error {
	if err := afero.WriteFile(a.Fs, path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + path).
			WithCause(err)
	}
	return nil
}

func (a OutputFileAdapter) ensurePath(filename string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := a.Fs.MkdirAll(a.Dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, filename), nil
}

var _ ports.OutputPort = OutputFileAdapter{}
