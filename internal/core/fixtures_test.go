package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"epics-require/internal/types"
)

const (
	testModulesPath = "/epics/modules"
	testEpicsBase   = "/epics/base"
	testEpicsVer    = "7.0.7"
	testArch        = "linux-x86_64"
	testLocalDir    = "/ioc/modules"
)

type mapEnv struct {
	vars map[string]string
}

func newMapEnv() *mapEnv {
	return &mapEnv{vars: map[string]string{}}
}

func (e *mapEnv) Get(name string) (string, bool) {
	value, ok := e.vars[name]
	return value, ok
}

func (e *mapEnv) Set(name string, value string) error {
	e.vars[name] = value
	return nil
}

func (e *mapEnv) Environ() []string {
	out := make([]string, 0, len(e.vars))
	for name, value := range e.vars {
		out = append(out, name+"="+value)
	}
	sort.Strings(out)
	return out
}

type countingLoader struct {
	loaded []string
	fail   map[string]error
}

func (l *countingLoader) Load(_ context.Context, path string) error {
	if err, ok := l.fail[path]; ok {
		return err
	}
	l.loaded = append(l.loaded, path)
	return nil
}

type recordingHost struct {
	databases []string
	commands  []string
}

func (h *recordingHost) LoadDatabase(_ context.Context, path string) error {
	h.databases = append(h.databases, path)
	return nil
}

func (h *recordingHost) Invoke(_ context.Context, command string) error {
	h.commands = append(h.commands, command)
	return nil
}

func testConfig() types.EngineConfig {
	return types.EngineConfig{
		ModulesPath:     testModulesPath,
		IncludePath:     "/usr/lib",
		EpicsBase:       testEpicsBase,
		EpicsVersion:    testEpicsVer,
		Arch:            testArch,
		LocalModulesDir: testLocalDir,
		LibPrefix:       "lib",
		LibSuffix:       ".so",
		PathSeparator:   ":",
	}
}

type engineFixture struct {
	fs     afero.Fs
	env    *mapEnv
	loader *countingLoader
	host   *recordingHost
	engine *Engine
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	fsys := afero.NewMemMapFs()
	env := newMapEnv()
	loader := &countingLoader{fail: map[string]error{}}
	host := &recordingHost{}
	return &engineFixture{
		fs:     fsys,
		env:    env,
		loader: loader,
		host:   host,
		engine: NewEngine(testConfig(), fsys, env, loader, host, host),
	}
}

// install lays out module at version under the modules path. deps are
// written verbatim as .dep lines.
func (f *engineFixture) install(t *testing.T, module string, version string, withLibrary bool, deps ...string) string {
	t.Helper()
	root := filepath.Join(testModulesPath, module, version)
	f.installAt(t, root, module, withLibrary, deps...)
	return root
}

func (f *engineFixture) installAt(t *testing.T, root string, module string, withLibrary bool, deps ...string) {
	t.Helper()
	layout := f.engine.Layout
	content := "# Generated file. Do not edit.\n"
	for _, dep := range deps {
		content += dep + "\n"
	}
	require.NoError(t, afero.WriteFile(f.fs, layout.DependencyFile(root, module), []byte(content), 0o644))
	if withLibrary {
		paths := layout.Paths(root, module)
		require.NoError(t, afero.WriteFile(f.fs, paths.Library, []byte("ELF"), 0o755))
	}
}

func (f *engineFixture) libraryOf(module string, version string) string {
	root := filepath.Join(testModulesPath, module, version)
	return f.engine.Layout.Paths(root, module).Library
}

func (f *engineFixture) writeFile(t *testing.T, path string, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.fs, path, []byte(content), mode))
}

func versionEntry(module string, version string) string {
	return fmt.Sprintf("%s=%s", ModuleVersionVar(module), version)
}
