package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epics-require/internal/types"
)

func TestRequireLoadsDependenciesBeforeModule(t *testing.T) {
	f := newEngineFixture(t)
	f.install(t, "asyn", "4.1.0", true, "calc,3.7+")
	f.install(t, "calc", "3.7.1", true)

	activation, err := f.engine.Require(context.Background(), "asyn", "4.1")
	require.NoError(t, err)
	assert.Equal(t, "4.1.0", activation.Version)
	assert.Equal(t, types.StateLoaded, activation.State)

	want := []string{f.libraryOf("calc", "3.7.1"), f.libraryOf("asyn", "4.1.0")}
	if diff := cmp.Diff(want, f.loader.loaded); diff != "" {
		t.Fatalf("unexpected load order (-want +got):\n%s", diff)
	}
	assert.Equal(t, "4.1.0", f.env.vars["REQUIRE_asyn_VERSION"])
	assert.Equal(t, "3.7.1", f.env.vars["REQUIRE_calc_VERSION"])
	assert.Equal(t, filepath.Join(testModulesPath, "asyn", "4.1.0"), f.env.vars["REQUIRE_asyn_PATH"])

	loaded := f.engine.Registry.List("")
	want2 := []types.LoadedModule{{Name: "asyn", Version: "4.1.0"}, {Name: "calc", Version: "3.7.1"}}
	if diff := cmp.Diff(want2, loaded); diff != "" {
		t.Fatalf("unexpected registry (-want +got):\n%s", diff)
	}
}

func TestRequireIsIdempotent(t *testing.T) {
	f := newEngineFixture(t)
	f.install(t, "asyn", "4.1.0", true)

	first, err := f.engine.Require(context.Background(), "asyn", "4.1.0")
	require.NoError(t, err)
	assert.False(t, first.AlreadyLoaded)

	second, err := f.engine.Require(context.Background(), "asyn", "4.1.0")
	require.NoError(t, err)
	assert.True(t, second.AlreadyLoaded)
	assert.Len(t, f.loader.loaded, 1)
	assert.Equal(t, 1, f.engine.Registry.Len())
}

func TestRequireReportsVersionConflict(t *testing.T) {
	f := newEngineFixture(t)
	f.install(t, "asyn", "2.1.0", true)
	f.install(t, "asyn", "3.0.0", true)

	_, err := f.engine.Require(context.Background(), "asyn", "2.1")
	require.NoError(t, err)

	activation, err := f.engine.Require(context.Background(), "asyn", "3.0")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeAlreadyExists, errbuilder.CodeOf(err))
	assert.Equal(t, types.StateFailed, activation.State)
	assert.Equal(t, 1, f.engine.Registry.Len())
	version, _ := f.engine.Registry.Lookup("asyn")
	assert.Equal(t, "2.1.0", version)
}

func TestRequireAcceptsLoadedTestVersion(t *testing.T) {
	f := newEngineFixture(t)
	require.NoError(t, f.engine.Registry.Register("asyn", "jdoe"))

	activation, err := f.engine.Require(context.Background(), "asyn", "4.0")
	require.NoError(t, err)
	assert.True(t, activation.AlreadyLoaded)
	assert.Equal(t, "jdoe", activation.Version)
}

func TestRequireAcceptsNamedRequestForLoadedModule(t *testing.T) {
	f := newEngineFixture(t)
	f.install(t, "top", "1.0.0", true, "asyn,4.1.0", "other,1.0.0")
	f.install(t, "other", "1.0.0", true, "asyn,mybranch")
	f.install(t, "asyn", "4.1.0", true)

	activation, err := f.engine.Require(context.Background(), "top", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, types.StateLoaded, activation.State)

	want := []types.LoadedModule{
		{Name: "top", Version: "1.0.0"},
		{Name: "other", Version: "1.0.0"},
		{Name: "asyn", Version: "4.1.0"},
	}
	if diff := cmp.Diff(want, f.engine.Registry.List("")); diff != "" {
		t.Fatalf("unexpected registry (-want +got):\n%s", diff)
	}
	assert.Len(t, f.loader.loaded, 3)
}

func TestRequireStopsAtFirstFailedDependency(t *testing.T) {
	f := newEngineFixture(t)
	f.install(t, "top", "1.0.0", true, "missing,1.0", "other,1.0")
	f.install(t, "other", "1.0.0", true)

	activation, err := f.engine.Require(context.Background(), "top", "")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "missing")
	assert.Equal(t, types.StateFailed, activation.State)
	assert.Empty(t, f.loader.loaded)
	assert.Equal(t, 0, f.engine.Registry.Len())
	_, ok := f.engine.Registry.Lookup("other")
	assert.False(t, ok)
}

func TestRequireMetaModuleHasNoLibrary(t *testing.T) {
	f := newEngineFixture(t)
	f.install(t, "bundle", "1.0.0", false, "calc")
	f.install(t, "calc", "3.7.1", true)

	activation, err := f.engine.Require(context.Background(), "bundle", "")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", activation.Version)
	if diff := cmp.Diff([]string{f.libraryOf("calc", "3.7.1")}, f.loader.loaded); diff != "" {
		t.Fatalf("unexpected loads (-want +got):\n%s", diff)
	}
	_, ok := f.engine.Registry.Lookup("bundle")
	assert.True(t, ok)
}

func TestRequireDetectsDependencyCycle(t *testing.T) {
	f := newEngineFixture(t)
	f.install(t, "a", "1.0.0", true, "b")
	f.install(t, "b", "1.0.0", true, "a")

	_, err := f.engine.Require(context.Background(), "a", "")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "circular dependency: a -> b -> a")
	assert.Empty(t, f.loader.loaded)
}

func TestRequireFallsBackToSystemLibrary(t *testing.T) {
	f := newEngineFixture(t)
	f.writeFile(t, "/usr/lib/libpcre.so", "ELF", 0o755)

	activation, err := f.engine.Require(context.Background(), "pcre", "")
	require.NoError(t, err)
	assert.Equal(t, types.VersionSystem, activation.Version)
	assert.Equal(t, "/usr/lib/libpcre.so", activation.Path)
	if diff := cmp.Diff([]string{"/usr/lib/libpcre.so"}, f.loader.loaded); diff != "" {
		t.Fatalf("unexpected loads (-want +got):\n%s", diff)
	}
	assert.Equal(t, types.VersionSystem, f.env.vars["REQUIRE_pcre_VERSION"])
}

func TestRequireNotFoundAnywhere(t *testing.T) {
	f := newEngineFixture(t)

	activation, err := f.engine.Require(context.Background(), "nothing", "1.0")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Equal(t, types.StateFailed, activation.State)
}

func TestRequirePrefersLocalBuild(t *testing.T) {
	f := newEngineFixture(t)
	local := filepath.Join(testLocalDir, "mydriver", "builddir")
	f.installAt(t, local, "mydriver", true)
	f.install(t, "mydriver", "1.0.0", true)

	activation, err := f.engine.Require(context.Background(), "mydriver", "")
	require.NoError(t, err)
	assert.Equal(t, types.VersionLocal, activation.Version)
	assert.Equal(t, local, activation.Path)
}

func TestRequireNamedVersion(t *testing.T) {
	f := newEngineFixture(t)
	f.install(t, "asyn", "jdoe", true)
	f.install(t, "asyn", "4.1.0", true)

	activation, err := f.engine.Require(context.Background(), "asyn", "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", activation.Version)
}

func TestRequireUsesDefaultVersion(t *testing.T) {
	f := newEngineFixture(t)
	f.install(t, "asyn", "4.1.0", true)
	f.install(t, "asyn", "4.2.0", true)
	f.writeFile(t, filepath.Join(testEpicsBase, "configure", "default."+testArch+".dep"), "calc 3.7.1\nasyn 4.1.0\n", 0o644)

	activation, err := f.engine.Require(context.Background(), "asyn", "")
	require.NoError(t, err)
	assert.Equal(t, "4.1.0", activation.Version)
}

func TestRequirePrefersRequestedMajor(t *testing.T) {
	f := newEngineFixture(t)
	f.install(t, "calc", "1.0.0", true)
	f.install(t, "calc", "1.5.0", true)
	f.install(t, "calc", "2.0.0", true)

	activation, err := f.engine.Require(context.Background(), "calc", "1+")
	require.NoError(t, err)
	assert.Equal(t, "1.5.0", activation.Version)
}

func TestRequirePublishesResourceFolders(t *testing.T) {
	f := newEngineFixture(t)
	root := f.install(t, "stream", "2.8.0", true)
	require.NoError(t, f.fs.MkdirAll(filepath.Join(root, "db"), 0o755))
	require.NoError(t, f.fs.MkdirAll(filepath.Join(root, "misc"), 0o755))
	f.env.vars[EnvStreamProtocolPath] = "/opt/protocols"

	_, err := f.engine.Require(context.Background(), "stream", "")
	require.NoError(t, err)
	assert.Equal(t, ".:"+filepath.Join(root, "db"), f.env.vars[EnvDBIncludePath])
	assert.Equal(t, "/opt/protocols:"+filepath.Join(root, "misc"), f.env.vars[EnvStreamProtocolPath])
	_, ok := f.env.vars[EnvStartupIncludePath]
	assert.False(t, ok)
}

func TestRequireLoadsDatabaseDefinition(t *testing.T) {
	f := newEngineFixture(t)
	root := f.install(t, "motor", "7.2.0", true)
	dbd := f.engine.Layout.Paths(root, "motor").DBD
	f.writeFile(t, dbd, "recordtype(motor) {}\n", 0o644)

	_, err := f.engine.Require(context.Background(), "motor", "")
	require.NoError(t, err)
	assert.Equal(t, []string{dbd}, f.host.databases)
	assert.Equal(t, []string{"motor_registerRecordDeviceDriver pdbbase"}, f.host.commands)
}

func TestRequireSkipsEmptyDatabaseDefinition(t *testing.T) {
	f := newEngineFixture(t)
	root := f.install(t, "motor", "7.2.0", true)
	f.writeFile(t, f.engine.Layout.Paths(root, "motor").DBD, "", 0o644)

	_, err := f.engine.Require(context.Background(), "motor", "")
	require.NoError(t, err)
	assert.Empty(t, f.host.databases)
	assert.Empty(t, f.host.commands)
}

func TestRequireLibraryLoadFailure(t *testing.T) {
	f := newEngineFixture(t)
	f.install(t, "asyn", "4.1.0", true)
	f.loader.fail[f.libraryOf("asyn", "4.1.0")] = errors.New("undefined symbol: foo")

	activation, err := f.engine.Require(context.Background(), "asyn", "")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "failed to load")
	assert.Equal(t, types.StateFailed, activation.State)
	assert.Equal(t, 0, f.engine.Registry.Len())
}

func TestRequireReportsStateTransitions(t *testing.T) {
	f := newEngineFixture(t)
	f.install(t, "asyn", "4.1.0", true)
	var states []types.ActivationState
	f.engine.OnTransition = func(module string, state types.ActivationState) {
		states = append(states, state)
	}

	_, err := f.engine.Require(context.Background(), "asyn", "")
	require.NoError(t, err)
	want := []types.ActivationState{
		types.StateResolving,
		types.StateLoadingDependencies,
		types.StateLoadingLibrary,
		types.StateRegisteringResources,
		types.StateLoaded,
	}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Fatalf("unexpected transitions (-want +got):\n%s", diff)
	}
}

func TestRequireRejectsIncompleteConfiguration(t *testing.T) {
	cfg := testConfig()
	cfg.ModulesPath = ""
	engine := NewEngine(cfg, afero.NewMemMapFs(), newMapEnv(), &countingLoader{}, nil, nil)

	_, err := engine.Require(context.Background(), "asyn", "")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), EnvModulesPath)
}

func TestRequireRejectsEmptyModuleName(t *testing.T) {
	f := newEngineFixture(t)
	_, err := f.engine.Require(context.Background(), "  ", "")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
