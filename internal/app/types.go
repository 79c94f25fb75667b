package app

import "epics-require/internal/types"

type RequireRequest struct {
	Config    types.EngineConfig
	Modules   []types.ModuleRequest
	OutputDir string
	AfterInit bool
	NoLoad    bool
}

type RequireResult struct {
	Activations []types.Activation
	Failures    []RequireFailure
	Loaded      []types.LoadedModule
	Environment []types.EnvVar
	Startup     []string
	OutputDir   string
}

// RequireFailure is a request that failed without aborting the run.
type RequireFailure struct {
	Module  string
	Version string
	Message string
}

type ShowRequest struct {
	Config    types.EngineConfig
	Pattern   string
	ReportDir string
}

type ShowResult struct {
	Modules []types.LoadedModule
}

type VersionsRequest struct {
	Config types.EngineConfig
	Module string
}

type VersionsResult struct {
	Module   string
	Versions []types.InstalledVersion
}

type ExecRequest struct {
	Config     types.EngineConfig
	Module     types.ModuleRequest
	Executable string
	Args       []string
	ArgLine    string
	OutFile    string
	NoWait     bool
	// SkipIfExists names a file whose presence means the work was already
	// done; the executable is then not started.
	SkipIfExists string
}

type ExecResult struct {
	Skipped     bool
	Path        string
	Args        []string
	LibraryPath string
}

type SnippetRequest struct {
	Config  types.EngineConfig
	Modules []types.ModuleRequest
	Snippet string
}

type SnippetResult struct {
	Path string
}

type InspectRequest struct {
	OutputDir string
}

type InspectResult struct {
	Requested    []types.ModuleRequest
	Loaded       []types.LoadedModule
	Environment  []types.EnvVar
	StartupCount int
}
