package adapters

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/shell"

	"epics-require/internal/ports"
	"epics-require/internal/types"
)

type OutputReaderAdapter struct {
	Fs afero.Fs
}

func NewOutputReaderAdapter(fsys afero.Fs) OutputReaderAdapter {
	return OutputReaderAdapter{Fs: fsys}
}

func (a OutputReaderAdapter) ReadReport(path string) (types.ModuleReport, error) {
	content, err := afero.ReadFile(a.Fs, path)
	if err != nil {
		return types.ModuleReport{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(ReportFile + " not found").
			WithCause(err)
	}
	var report types.ModuleReport
	if err := yaml.Unmarshal(content, &report); err != nil {
		return types.ModuleReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid " + ReportFile + " format").
			WithCause(err)
	}
	for _, entry := range report.Loaded {
		if strings.TrimSpace(entry.Name) == "" {
			return types.ModuleReport{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(ReportFile + " has a loaded module without name")
		}
	}
	return report, nil
}

func (a OutputReaderAdapter) ReadEnvironment(path string) ([]types.EnvVar, error) {
	content, err := afero.ReadFile(a.Fs, path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(EnvironmentFile + " not found").
			WithCause(err)
	}
	var vars []types.EnvVar
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := shell.Fields(line, func(string) string { return "" })
		if err != nil || len(fields) != 2 || fields[0] != "export" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid " + EnvironmentFile + " line: " + line)
		}
		name, value, ok := strings.Cut(fields[1], "=")
		if !ok || name == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid " + EnvironmentFile + " line: " + line)
		}
		vars = append(vars, types.EnvVar{Name: name, Value: value})
	}
	return vars, nil
}

var _ ports.OutputReaderPort = OutputReaderAdapter{}
