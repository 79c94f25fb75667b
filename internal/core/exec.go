package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"epics-require/internal/types"
)

// LocateExecutable searches the bin directories published by loaded modules
// for an executable named name. Names containing a path separator are used
// as given.
func (e *Engine) LocateExecutable(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if !e.isFile(name) {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("executable not found: %s", name))
		}
		if !e.isExecutable(name) {
			return "", notExecutable(name)
		}
		return name, nil
	}
	searchPath, _ := e.Env.Get(EnvBinIncludePath)
	for _, dir := range SplitSearchPath(searchPath, e.Config.PathSeparator) {
		candidate := filepath.Join(dir, name)
		if e.isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("executable not found: %s", name))
}

// LocateSnippet searches the startup directories published by loaded
// modules for a script snippet.
func (e *Engine) LocateSnippet(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if !e.isFile(name) {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("snippet not found: %s", name))
		}
		return name, nil
	}
	searchPath, _ := e.Env.Get(EnvStartupIncludePath)
	for _, dir := range SplitSearchPath(searchPath, e.Config.PathSeparator) {
		candidate := filepath.Join(dir, name)
		if e.isFile(candidate) {
			return candidate, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("snippet not found: %s", name))
}

// LibraryPath builds a library search path from the library directories of
// every loaded module, most recently loaded first, followed by current.
// System libraries carry no module directory and are skipped.
func (e *Engine) LibraryPath(current string) string {
	var dirs []string
	seen := map[string]bool{}
	for _, entry := range e.Registry.List("") {
		if entry.Version == types.VersionSystem {
			continue
		}
		root, ok := e.Env.Get(ModulePathVar(entry.Name))
		if !ok || root == "" {
			continue
		}
		dir := e.Layout.LibraryDir(root)
		if seen[dir] || !e.isDir(dir) {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, SplitSearchPath(current, e.Config.PathSeparator)...)
	return strings.Join(dirs, e.Config.PathSeparator)
}

func (e *Engine) isExecutable(path string) bool {
	info, err := e.Fs.Stat(path)
	return err == nil && !info.IsDir() && info.Mode().Perm()&0o111 != 0
}

func (e *Engine) isFile(path string) bool {
	info, err := e.Fs.Stat(path)
	return err == nil && !info.IsDir()
}

func (e *Engine) isDir(path string) bool {
	info, err := e.Fs.Stat(path)
	return err == nil && info.IsDir()
}

func notExecutable(path string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodePermissionDenied).
		WithMsg(fmt.Sprintf("%s is not executable", path))
}
