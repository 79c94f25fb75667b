package adapters

import (
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"epics-require/internal/types"
)

func TestOutputFileAdapterFormats(t *testing.T) {
	fsys := afero.NewMemMapFs()
	adapter := NewOutputFileAdapter(fsys, "/out")

	require.NoError(t, adapter.WriteEnvironment([]types.EnvVar{
		{Name: "REQUIRE_asyn_VERSION", Value: "4.1.0"},
		{Name: "EPICS_DB_INCLUDE_PATH", Value: ".:/epics/modules/it's/db"},
	}))
	data, err := afero.ReadFile(fsys, filepath.Join("/out", EnvironmentFile))
	require.NoError(t, err)
	want := "export REQUIRE_asyn_VERSION='4.1.0'\nexport EPICS_DB_INCLUDE_PATH='.:/epics/modules/it'\\''s/db'\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Fatalf("unexpected env.sh content (-want +got):\n%s", diff)
	}

	require.NoError(t, adapter.WriteStartup([]string{`dbLoadDatabase("/a.dbd")`, "a_registerRecordDeviceDriver pdbbase"}))
	data, err = afero.ReadFile(fsys, filepath.Join("/out", StartupFile))
	require.NoError(t, err)
	if diff := cmp.Diff("dbLoadDatabase(\"/a.dbd\")\na_registerRecordDeviceDriver pdbbase\n", string(data)); diff != "" {
		t.Fatalf("unexpected startup.cmd content (-want +got):\n%s", diff)
	}
}

func TestOutputFileAdapterRequiresDir(t *testing.T) {
	adapter := NewOutputFileAdapter(afero.NewMemMapFs(), "")
	err := adapter.WriteStartup(nil)
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestOutputReaderRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writer := NewOutputFileAdapter(fsys, "/out")
	reader := NewOutputReaderAdapter(fsys)

	report := types.ModuleReport{
		Requested: []types.ModuleRequest{{Module: "asyn", Version: "4.1"}},
		Loaded: []types.LoadedModule{
			{Name: "asyn", Version: "4.1.0"},
			{Name: "calc", Version: "3.7.1"},
		},
		Startup: []string{`dbLoadDatabase("/a.dbd")`},
	}
	require.NoError(t, writer.WriteReport(report))
	got, err := reader.ReadReport(filepath.Join("/out", ReportFile))
	require.NoError(t, err)
	if diff := cmp.Diff(report, got); diff != "" {
		t.Fatalf("unexpected report (-want +got):\n%s", diff)
	}

	vars := []types.EnvVar{
		{Name: "A", Value: "it's $HOME"},
		{Name: "B", Value: ".:/x:/y"},
	}
	require.NoError(t, writer.WriteEnvironment(vars))
	gotVars, err := reader.ReadEnvironment(filepath.Join("/out", EnvironmentFile))
	require.NoError(t, err)
	if diff := cmp.Diff(vars, gotVars); diff != "" {
		t.Fatalf("unexpected environment (-want +got):\n%s", diff)
	}
}

func TestOutputReaderRejectsMalformedFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	reader := NewOutputReaderAdapter(fsys)

	_, err := reader.ReadReport("/missing.yaml")
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	require.NoError(t, afero.WriteFile(fsys, "/bad.yaml", []byte("loaded:\n  - version: 1.0.0\n"), 0o644))
	_, err = reader.ReadReport("/bad.yaml")
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	require.NoError(t, afero.WriteFile(fsys, "/env.sh", []byte("# header\nset -e\n"), 0o644))
	_, err = reader.ReadEnvironment("/env.sh")
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
