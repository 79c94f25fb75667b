package types

// EngineConfig carries the environment-derived settings of the activation
// engine. ModulesPath, EpicsVersion and Arch are required.
type EngineConfig struct {
	ModulesPath     string
	IncludePath     string
	EpicsBase       string
	EpicsVersion    string
	Arch            string
	LocalModulesDir string
	BuildDir        string
	LibPrefix       string
	LibSuffix       string
	PathSeparator   string
	Inherit         bool
}
