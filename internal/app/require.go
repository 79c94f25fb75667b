package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"epics-require/internal/adapters"
	"epics-require/internal/core"
	"epics-require/internal/policies"
	"epics-require/internal/shared"
	"epics-require/internal/types"
)

// Require activates every requested module in order. A failure aborts the
// run unless the request is made after IOC initialisation, in which case it
// is reported and the remaining modules are still attempted.
func (s Service) Require(ctx context.Context, req RequireRequest) (RequireResult, error) {
	modules, err := validateModules(req.Modules)
	if err != nil {
		return RequireResult{}, err
	}

	env := adapters.NewRecordingEnvironment(s.Env)
	script := adapters.NewStartupScriptAdapter()
	loader := s.Loader
	if req.NoLoad {
		loader = adapters.NewCheckLoader(s.Fs)
	}
	engine := core.NewEngine(req.Config, s.Fs, env, loader, script, script)
	engine.OnTransition = func(module string, state types.ActivationState) {
		log.Ctx(ctx).Debug().Str("module", module).Str("state", string(state)).Msg("activation state")
	}
	policy := policies.StartupPolicy{AfterInit: req.AfterInit}

	result := RequireResult{OutputDir: req.OutputDir}
	for _, module := range modules {
		script.Comment("require " + formatRequest(module))
		activation, err := engine.Require(ctx, module.Module, module.Version)
		if err != nil {
			outcome := policy.Evaluate(err)
			log.Ctx(ctx).Error().Err(err).Str("module", module.Module).Msg(outcome.Message)
			if outcome.Fatal {
				return result, outcome.Err
			}
			result.Failures = append(result.Failures, RequireFailure{
				Module:  module.Module,
				Version: module.Version,
				Message: shared.ErrorMessage(err),
			})
			continue
		}
		result.Activations = append(result.Activations, activation)
	}

	result.Loaded = engine.Registry.List("")
	result.Environment = env.Changes()
	result.Startup = script.Lines()

	if req.OutputDir == "" {
		return result, nil
	}
	output := adapters.NewOutputFileAdapter(s.Fs, req.OutputDir)
	report := types.ModuleReport{
		Requested:   modules,
		Loaded:      result.Loaded,
		Environment: result.Environment,
		Startup:     result.Startup,
	}
	if err := output.WriteReport(report); err != nil {
		return result, err
	}
	if err := output.WriteEnvironment(result.Environment); err != nil {
		return result, err
	}
	if err := output.WriteStartup(result.Startup); err != nil {
		return result, err
	}
	return result, nil
}
