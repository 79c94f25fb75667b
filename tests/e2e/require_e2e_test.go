package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"epics-require/tests/testutil"
)

func TestRequireCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	modulesPath := t.TempDir()
	outDir := t.TempDir()
	testutil.InstallModule(t, modulesPath, "asyn", "4.42.0")
	testutil.InstallModule(t, modulesPath, "stream", "2.8.22", "asyn 4.42")

	cmd := exec.Command("go", "run", "./cmd/require", "require",
		"--modules-path", modulesPath,
		"--epics-version", testutil.EpicsVersion,
		"--arch", testutil.Arch,
		"--no-load",
		"--output", outDir,
		"stream",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	require.FileExists(t, filepath.Join(outDir, "modules.yaml"))
	require.FileExists(t, filepath.Join(outDir, "env.sh"))
	require.FileExists(t, filepath.Join(outDir, "startup.cmd"))
	require.Contains(t, string(out), "loaded stream 2.8.22")
}

func TestRequireCommandMissingModuleExitCode(t *testing.T) {
	root := testutil.RepoRoot(t)
	modulesPath := t.TempDir()

	cmd := exec.Command("go", "run", "./cmd/require", "require",
		"--modules-path", modulesPath,
		"--epics-version", testutil.EpicsVersion,
		"--arch", testutil.Arch,
		"--include-path", modulesPath,
		"--no-load",
		"missing",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.Error(t, err, string(out))
	require.Contains(t, string(out), "module not found: missing")
}
