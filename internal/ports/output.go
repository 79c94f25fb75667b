package ports

import "epics-require/internal/types"

type OutputPort interface {
	WriteReport(report types.ModuleReport) error
	WriteEnvironment(vars []types.EnvVar) error
	WriteStartup(lines []string) error
}
