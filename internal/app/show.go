package app

import (
	"path/filepath"
	"strings"

	"epics-require/internal/adapters"
	"epics-require/internal/core"
)

// Show lists loaded modules whose name contains the pattern. Modules come
// from a previous run's report when ReportDir is set, otherwise from the
// REQUIRE_<module>_VERSION variables of the environment.
func (s Service) Show(req ShowRequest) (ShowResult, error) {
	if dir := strings.TrimSpace(req.ReportDir); dir != "" {
		report, err := s.OutputReader.ReadReport(filepath.Join(dir, adapters.ReportFile))
		if err != nil {
			return ShowResult{}, err
		}
		registry := core.NewRegistry(nil)
		for i := len(report.Loaded) - 1; i >= 0; i-- {
			if err := registry.Register(report.Loaded[i].Name, report.Loaded[i].Version); err != nil {
				return ShowResult{}, err
			}
		}
		return ShowResult{Modules: registry.List(req.Pattern)}, nil
	}
	registry := core.NewRegistry(s.Env)
	registry.Inherit()
	return ShowResult{Modules: registry.List(req.Pattern)}, nil
}
