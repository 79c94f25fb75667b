// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	EpicsVersion = "7.0.7"
	Arch         = "linux-x86_64"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// InstallModule lays out modulesPath/module/version the way an installed
// module tree looks on disk: a dependency descriptor listing deps, a shared
// library and empty db and startup folders. It returns the version
// directory.
func InstallModule(t *testing.T, modulesPath string, module string, version string, deps ...string) string {
	t.Helper()
	root := filepath.Join(modulesPath, module, version)
	libDir := filepath.Join(root, EpicsVersion, "lib", Arch)
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "db"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "startup"), 0o755))

	content := "# Generated file. Do not edit.\n"
	if len(deps) > 0 {
		content += strings.Join(deps, "\n") + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(libDir, module+".dep"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(libDir, "lib"+module+".so"), []byte("\x7fELF"), 0o644))
	return root
}

// WriteFile writes content below root, creating parent directories.
func WriteFile(t *testing.T, root string, rel string, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
