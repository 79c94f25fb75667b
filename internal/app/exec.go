package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"mvdan.cc/sh/v3/shell"

	"epics-require/internal/adapters"
	"epics-require/internal/core"
	"epics-require/internal/types"
)

// Exec activates a module and runs one of the executables it ships, with
// the library path extended by every loaded module.
func (s Service) Exec(ctx context.Context, req ExecRequest) (ExecResult, error) {
	executable := strings.TrimSpace(req.Executable)
	if executable == "" {
		return ExecResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("executable name is required")
	}
	if skip := strings.TrimSpace(req.SkipIfExists); skip != "" {
		if _, err := s.Fs.Stat(skip); err == nil {
			log.Ctx(ctx).Info().Str("path", skip).Msg("require: already present, not executing")
			return ExecResult{Skipped: true}, nil
		}
	}
	base := adapters.NewMapEnvironment(s.Env.Environ())
	engine, env, _ := s.checkEngine(req.Config, base)
	if strings.TrimSpace(req.Module.Module) != "" {
		if _, err := engine.Require(ctx, req.Module.Module, req.Module.Version); err != nil {
			return ExecResult{}, err
		}
	}

	path, err := engine.LocateExecutable(executable)
	if err != nil {
		return ExecResult{}, err
	}
	current, _ := env.Get(core.EnvLibraryPath)
	libraryPath := engine.LibraryPath(current)
	if err := env.Set(core.EnvLibraryPath, libraryPath); err != nil {
		return ExecResult{}, err
	}

	args := append([]string(nil), req.Args...)
	if strings.TrimSpace(req.ArgLine) != "" {
		fields, err := shell.Fields(req.ArgLine, func(name string) string {
			value, _ := env.Get(name)
			return value
		})
		if err != nil {
			return ExecResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid argument line").
				WithCause(err)
		}
		args = append(args, fields...)
	}

	log.Ctx(ctx).Info().Str("path", path).Strs("args", args).Msg("require: executing")
	spec := types.ExecSpec{
		Path:    path,
		Args:    args,
		Env:     env.Environ(),
		OutFile: req.OutFile,
		Wait:    !req.NoWait,
	}
	if err := s.Process.Run(ctx, spec); err != nil {
		return ExecResult{}, err
	}
	return ExecResult{Path: path, Args: args, LibraryPath: libraryPath}, nil
}
