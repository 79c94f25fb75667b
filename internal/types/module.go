package types

// LoadedModule is one registry entry. Entries are never mutated once created.
type LoadedModule struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// DependencyRecord is a single line of a .dep file.
type DependencyRecord struct {
	Module  string
	Version string
}

// ModulePaths is the file set derived from an installed module directory.
type ModulePaths struct {
	Root       string
	Library    string
	Dependency string
	DBD        string
	DB         string
	Startup    string
	Bin        string
	Misc       string
}

// Candidate is the installed directory chosen for a module request.
type Candidate struct {
	Version string
	Path    string
	Source  CandidateSource
}

// InstalledVersion describes one directory under repoRoot/<module>.
type InstalledVersion struct {
	Name      string
	Path      string
	Numeric   bool
	Available bool
}

// Activation is the outcome of one module activation.
type Activation struct {
	Module        string
	Requested     string
	Version       string
	Path          string
	State         ActivationState
	AlreadyLoaded bool
}
