package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"epics-require/internal/policies"
	"epics-require/internal/ports"
	"epics-require/internal/shared"
	"epics-require/internal/types"
)

// Engine activates modules: it resolves a request to an installed
// directory, activates the declared dependencies, loads the library and
// publishes the module's resources. Calls to Require are serialised.
type Engine struct {
	Config    types.EngineConfig
	Fs        afero.Fs
	Env       ports.EnvironmentPort
	Loader    ports.LibraryLoaderPort
	Database  ports.DatabasePort
	Commands  ports.CommandPort
	Registry  *Registry
	Discovery Discoverer
	Layout    Layout

	// OnTransition, when set, observes every state change.
	OnTransition func(module string, state types.ActivationState)

	mu sync.Mutex
}

// NewEngine wires an engine. Database and Commands may be nil when the host
// has no database support; a module shipping a dbd then fails to activate.
func NewEngine(cfg types.EngineConfig, fsys afero.Fs, env ports.EnvironmentPort, loader ports.LibraryLoaderPort, database ports.DatabasePort, commands ports.CommandPort) *Engine {
	if cfg.PathSeparator == "" {
		cfg.PathSeparator = PlatformPathSeparator(runtime.GOOS)
	}
	layout := NewLayout(cfg)
	registry := NewRegistry(env)
	if cfg.Inherit {
		registry.Inherit()
	}
	return &Engine{
		Config:    cfg,
		Fs:        fsys,
		Env:       env,
		Loader:    loader,
		Database:  database,
		Commands:  commands,
		Registry:  registry,
		Discovery: NewDiscoverer(fsys, layout, cfg.EpicsBase),
		Layout:    layout,
	}
}

// Require activates module at the requested version.
func (e *Engine) Require(ctx context.Context, module string, version string) (types.Activation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkConfig(); err != nil {
		return types.Activation{Module: module, Requested: version, State: types.StateFailed}, err
	}
	if strings.TrimSpace(module) == "" {
		return types.Activation{State: types.StateFailed}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("module name is required")
	}
	return e.require(ctx, newActivationStack(), module, version)
}

func (e *Engine) checkConfig() error {
	missing := ""
	switch {
	case e.Config.ModulesPath == "":
		missing = EnvModulesPath
	case e.Config.EpicsVersion == "":
		missing = "EPICS version tag"
	case e.Config.Arch == "":
		missing = "target architecture"
	}
	if missing == "" {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s is not in environment", missing))
}

// activationStack tracks the modules currently being activated so that a
// dependency cycle is reported instead of recursing forever.
type activationStack struct {
	order      []string
	inProgress map[string]bool
}

func newActivationStack() *activationStack {
	return &activationStack{inProgress: map[string]bool{}}
}

func (s *activationStack) push(module string) bool {
	if s.inProgress[module] {
		return false
	}
	s.inProgress[module] = true
	s.order = append(s.order, module)
	return true
}

func (s *activationStack) pop(module string) {
	delete(s.inProgress, module)
	s.order = s.order[:len(s.order)-1]
}

func (s *activationStack) chain(module string) string {
	return strings.Join(append(append([]string(nil), s.order...), module), " -> ")
}

func (e *Engine) require(ctx context.Context, stack *activationStack, module string, version string) (types.Activation, error) {
	logger := log.Ctx(ctx)
	activation := types.Activation{Module: module, Requested: version, State: types.StateNotLoaded}
	logger.Debug().Str("module", module).Str("version", version).Msg("checking module")

	if loaded, ok := e.Registry.Lookup(module); ok {
		logger.Debug().Str("module", module).Str("loaded", loaded).Msg("module already loaded")
		activation.Version = loaded
		if err := policies.ValidateLoaded(ctx, module, version, loaded, MatchText); err != nil {
			return e.fail(activation, err)
		}
		activation.AlreadyLoaded = true
		e.transition(&activation, types.StateLoaded)
		return activation, nil
	}

	if !stack.push(module) {
		return e.fail(activation, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("circular dependency: %s", stack.chain(module))))
	}
	defer stack.pop(module)

	e.transition(&activation, types.StateResolving)
	candidate, err := e.Discovery.Discover(ctx, module, version)
	if err != nil {
		if errbuilder.CodeOf(err) != errbuilder.CodeNotFound {
			return e.fail(activation, err)
		}
		logger.Debug().Str("module", module).Msg("no EPICS module found, looking for system library")
		return e.requireSystem(ctx, activation, err)
	}
	assert.NotEmpty(ctx, candidate.Version, "discovered candidate must carry a version")
	assert.NotEmpty(ctx, candidate.Path, "discovered candidate must carry a path")
	activation.Version = candidate.Version
	activation.Path = candidate.Path
	paths := e.Layout.Paths(candidate.Path, module)

	e.transition(&activation, types.StateLoadingDependencies)
	if err := e.requireDependencies(ctx, stack, module, paths.Dependency); err != nil {
		return e.fail(activation, err)
	}

	e.transition(&activation, types.StateLoadingLibrary)
	if e.exists(paths.Library) {
		logger.Info().Str("library", paths.Library).Msg("require: loading library")
		if err := e.load(ctx, module, candidate.Version, paths.Library); err != nil {
			return e.fail(activation, err)
		}
	} else {
		logger.Debug().Str("module", module).Msg("no library to load")
	}

	e.transition(&activation, types.StateRegisteringResources)
	if err := e.Registry.Register(module, candidate.Version); err != nil {
		return e.fail(activation, err)
	}
	if err := e.Env.Set(ModulePathVar(module), candidate.Path); err != nil {
		return e.fail(activation, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to publish module path").
			WithCause(err))
	}
	if err := e.publishResources(ctx, module, paths); err != nil {
		return e.fail(activation, err)
	}
	if err := e.loadDatabase(ctx, module, paths.DBD); err != nil {
		return e.fail(activation, err)
	}

	e.transition(&activation, types.StateLoaded)
	return activation, nil
}

func (e *Engine) requireDependencies(ctx context.Context, stack *activationStack, module string, depFile string) error {
	file, err := e.Fs.Open(depFile)
	if err != nil {
		return openError(depFile, err)
	}
	defer file.Close()
	records, err := ParseDependencies(file)
	if err != nil {
		return err
	}
	for _, record := range records {
		if record.Version == "" {
			log.Ctx(ctx).Info().Msgf("require: %s depends on %s (no version)", module, record.Module)
		} else {
			log.Ctx(ctx).Info().Msgf("require: %s depends on %s (%s)", module, record.Module, record.Version)
		}
		if _, err := e.require(ctx, stack, record.Module, record.Version); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeOf(err)).
				WithMsg(fmt.Sprintf("dependency %s of %s: %s", record.Module, module, shared.ErrorMessage(err))).
				WithCause(err)
		}
	}
	return nil
}

func (e *Engine) requireSystem(ctx context.Context, activation types.Activation, cause error) (types.Activation, error) {
	module := activation.Module
	libName := e.Layout.LibraryName(module)
	includePath := e.Config.IncludePath
	if includePath == "" {
		includePath = "."
	}
	var found string
	for _, dir := range SplitSearchPath(includePath, e.Config.PathSeparator) {
		candidate := filepath.Join(dir, libName)
		log.Ctx(ctx).Debug().Str("path", candidate).Msg("looking for system library")
		if e.exists(candidate) {
			found = candidate
			break
		}
	}
	if found == "" {
		return e.fail(activation, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("%s; %q not found in %s", shared.ErrorMessage(cause), libName, includePath)).
			WithCause(cause))
	}
	activation.Path = found
	e.transition(&activation, types.StateLoadingLibrary)
	log.Ctx(ctx).Info().Str("library", found).Msg("require: loading system library")
	if err := e.load(ctx, module, types.VersionSystem, found); err != nil {
		return e.fail(activation, err)
	}
	activation.Version = types.VersionSystem
	e.transition(&activation, types.StateRegisteringResources)
	if err := e.Registry.Register(module, types.VersionSystem); err != nil {
		return e.fail(activation, err)
	}
	e.transition(&activation, types.StateLoaded)
	return activation, nil
}

func (e *Engine) load(ctx context.Context, module string, version string, path string) error {
	if e.Loader == nil {
		return loadError(module, version, path, errors.New("no library loader configured"))
	}
	if err := e.Loader.Load(ctx, path); err != nil {
		return loadError(module, version, path, err)
	}
	return nil
}

func (e *Engine) publishResources(ctx context.Context, module string, paths types.ModulePaths) error {
	for _, resource := range ResourceDirs(paths) {
		if !e.exists(resource.Path) {
			log.Ctx(ctx).Debug().Str("module", module).Str("kind", string(resource.Kind)).Msg("no resource folder")
			continue
		}
		value, err := appendSearchPath(e.Env, resource.Variable, resource.Path, e.Config.PathSeparator)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to publish %s folder of %s", resource.Kind, module)).
				WithCause(err)
		}
		log.Ctx(ctx).Info().Str("path", resource.Path).Msg("require: adding")
		log.Ctx(ctx).Debug().Str(resource.Variable, value).Msg("search path updated")
	}
	return nil
}

// RegisterFunctionName is the generated registration entry point of module.
func RegisterFunctionName(module string) string {
	return module + "_registerRecordDeviceDriver"
}

func (e *Engine) loadDatabase(ctx context.Context, module string, dbd string) error {
	info, err := e.Fs.Stat(dbd)
	if err != nil || info.IsDir() || info.Size() == 0 {
		log.Ctx(ctx).Debug().Str("dbd", dbd).Msg("no dbd file")
		return nil
	}
	if e.Database == nil || e.Commands == nil {
		return loadError(module, "", dbd, errors.New("host has no database support"))
	}
	log.Ctx(ctx).Info().Str("dbd", dbd).Msg("require: loading dbd")
	if err := e.Database.LoadDatabase(ctx, dbd); err != nil {
		return loadError(module, "", dbd, err)
	}
	register := RegisterFunctionName(module)
	log.Ctx(ctx).Info().Str("function", register).Msg("require: calling registration function")
	if err := e.Commands.Invoke(ctx, register+" pdbbase"); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to call %s", register)).
			WithCause(err)
	}
	return nil
}

func (e *Engine) exists(path string) bool {
	_, err := e.Fs.Stat(path)
	return err == nil
}

func (e *Engine) transition(activation *types.Activation, state types.ActivationState) {
	activation.State = state
	if e.OnTransition != nil {
		e.OnTransition(activation.Module, state)
	}
}

func (e *Engine) fail(activation types.Activation, err error) (types.Activation, error) {
	e.transition(&activation, types.StateFailed)
	return activation, err
}

func loadError(module string, version string, path string, cause error) error {
	subject := module
	if version != "" {
		subject = fmt.Sprintf("%s %s", module, version)
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("failed to load %s for %s", path, subject)).
		WithCause(cause)
}
