package app

import (
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"epics-require/internal/adapters"
)

// Inspect summarises the files written by a previous require run.
func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	report, err := s.OutputReader.ReadReport(filepath.Join(outputDir, adapters.ReportFile))
	if err != nil {
		return InspectResult{}, err
	}
	vars, err := s.OutputReader.ReadEnvironment(filepath.Join(outputDir, adapters.EnvironmentFile))
	if err != nil {
		return InspectResult{}, err
	}
	startup := 0
	for _, line := range report.Startup {
		if strings.HasPrefix(line, "#") {
			continue
		}
		startup++
	}
	return InspectResult{
		Requested:    report.Requested,
		Loaded:       report.Loaded,
		Environment:  vars,
		StartupCount: startup,
	}, nil
}
