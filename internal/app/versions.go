package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"epics-require/internal/core"
)

// Versions lists the installed versions of a module for the configured
// EPICS version and architecture.
func (s Service) Versions(req VersionsRequest) (VersionsResult, error) {
	module := strings.TrimSpace(req.Module)
	if module == "" {
		return VersionsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("module name is required")
	}
	if strings.TrimSpace(req.Config.ModulesPath) == "" {
		return VersionsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(core.EnvModulesPath + " is not in environment")
	}
	discoverer := core.NewDiscoverer(s.Fs, core.NewLayout(req.Config), req.Config.EpicsBase)
	versions, err := discoverer.Installed(module)
	if err != nil {
		return VersionsResult{}, err
	}
	return VersionsResult{Module: module, Versions: versions}, nil
}
