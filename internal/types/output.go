package types

// ModuleReport is the persisted summary of one require run.
type ModuleReport struct {
	Requested   []ModuleRequest `yaml:"requested"`
	Loaded      []LoadedModule  `yaml:"loaded"`
	Environment []EnvVar        `yaml:"environment,omitempty"`
	Startup     []string        `yaml:"startup,omitempty"`
}

type ModuleRequest struct {
	Module  string `yaml:"module"`
	Version string `yaml:"version,omitempty"`
}

type EnvVar struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// ExecSpec describes a child process launched from a module bin directory.
type ExecSpec struct {
	Path    string
	Args    []string
	Env     []string
	OutFile string
	Wait    bool
}
