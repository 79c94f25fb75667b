package app

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"epics-require/internal/adapters"
	"epics-require/internal/core"
	"epics-require/internal/ports"
	"epics-require/internal/types"
)

// ParseModuleArg splits "module[,version]".
func ParseModuleArg(arg string) (types.ModuleRequest, error) {
	name, version, _ := strings.Cut(strings.TrimSpace(arg), ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return types.ModuleRequest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid module argument %q", arg))
	}
	return types.ModuleRequest{Module: name, Version: strings.TrimSpace(version)}, nil
}

// ParseModuleArgs parses every argument; version overrides the version of
// a single argument that carries none.
func ParseModuleArgs(args []string, version string) ([]types.ModuleRequest, error) {
	if len(args) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one module is required")
	}
	if version != "" && len(args) != 1 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("--version applies to a single module")
	}
	requests := make([]types.ModuleRequest, 0, len(args))
	for _, arg := range args {
		request, err := ParseModuleArg(arg)
		if err != nil {
			return nil, err
		}
		if version != "" {
			if request.Version != "" && request.Version != version {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("conflicting versions for %s: %s and %s", request.Module, request.Version, version))
			}
			request.Version = version
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func validateModules(requests []types.ModuleRequest) ([]types.ModuleRequest, error) {
	if len(requests) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one module is required")
	}
	out := make([]types.ModuleRequest, 0, len(requests))
	for _, request := range requests {
		name := strings.TrimSpace(request.Module)
		if name == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("module name is required")
		}
		out = append(out, types.ModuleRequest{Module: name, Version: strings.TrimSpace(request.Version)})
	}
	return out, nil
}

// checkEngine wires an engine that verifies libraries without mapping them
// and records its environment changes on top of base.
func (s Service) checkEngine(cfg types.EngineConfig, base ports.EnvironmentPort) (*core.Engine, *adapters.RecordingEnvironment, *adapters.StartupScriptAdapter) {
	env := adapters.NewRecordingEnvironment(base)
	script := adapters.NewStartupScriptAdapter()
	engine := core.NewEngine(cfg, s.Fs, env, adapters.NewCheckLoader(s.Fs), script, script)
	return engine, env, script
}

func formatRequest(request types.ModuleRequest) string {
	if request.Version == "" {
		return request.Module
	}
	return request.Module + "," + request.Version
}
