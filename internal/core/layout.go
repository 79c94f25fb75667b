package core

import (
	"path/filepath"
	"runtime"

	"epics-require/internal/types"
)

// Layout maps module names and versions onto the installed directory
// structure. It performs no filesystem access.
type Layout struct {
	ModulesPath     string
	EpicsVersion    string
	Arch            string
	LocalModulesDir string
	BuildDir        string
	LibPrefix       string
	LibSuffix       string
}

// NewLayout derives a Layout from the engine configuration, filling the
// platform library decoration when the configuration leaves it empty.
func NewLayout(cfg types.EngineConfig) Layout {
	prefix, suffix := PlatformLibraryDecoration(runtime.GOOS)
	if cfg.LibPrefix != "" || cfg.LibSuffix != "" {
		prefix, suffix = cfg.LibPrefix, cfg.LibSuffix
	}
	local := cfg.LocalModulesDir
	if local == "" {
		local = "modules"
	}
	build := cfg.BuildDir
	if build == "" {
		build = "builddir"
	}
	return Layout{
		ModulesPath:     cfg.ModulesPath,
		EpicsVersion:    cfg.EpicsVersion,
		Arch:            cfg.Arch,
		LocalModulesDir: local,
		BuildDir:        build,
		LibPrefix:       prefix,
		LibSuffix:       suffix,
	}
}

// PlatformLibraryDecoration returns the shared library file prefix and
// extension for goos.
func PlatformLibraryDecoration(goos string) (string, string) {
	switch goos {
	case "windows":
		return "", ".dll"
	case "darwin":
		return "lib", ".dylib"
	default:
		return "lib", ".so"
	}
}

// PlatformPathSeparator returns the list separator used in search-path
// variables for goos.
func PlatformPathSeparator(goos string) string {
	if goos == "windows" {
		return ";"
	}
	return ":"
}

// ModuleDir is repoRoot/<module>.
func (l Layout) ModuleDir(module string) string {
	return filepath.Join(l.ModulesPath, module)
}

// VersionDir is repoRoot/<module>/<version>.
func (l Layout) VersionDir(module string, version string) string {
	return filepath.Join(l.ModulesPath, module, version)
}

// LocalDir is <localModulesDir>/<entry>/<buildDir>.
func (l Layout) LocalDir(entry string) string {
	return filepath.Join(l.LocalModulesDir, entry, l.BuildDir)
}

// LibraryName is the platform-decorated library file name.
func (l Layout) LibraryName(module string) string {
	return l.LibPrefix + module + l.LibSuffix
}

// DependencyFile is the per-architecture descriptor whose presence marks a
// module directory as installed for this architecture.
func (l Layout) DependencyFile(modulePath string, module string) string {
	return filepath.Join(l.libDir(modulePath), module+".dep")
}

// LibraryDir is <modulePath>/<epicsVersion>/lib/<arch>.
func (l Layout) LibraryDir(modulePath string) string {
	return l.libDir(modulePath)
}

func (l Layout) libDir(modulePath string) string {
	return filepath.Join(modulePath, l.EpicsVersion, "lib", l.Arch)
}

// Paths returns every well-known path of an installed module directory.
func (l Layout) Paths(modulePath string, module string) types.ModulePaths {
	return types.ModulePaths{
		Root:       modulePath,
		Library:    filepath.Join(l.libDir(modulePath), l.LibraryName(module)),
		Dependency: l.DependencyFile(modulePath, module),
		DBD:        filepath.Join(modulePath, l.EpicsVersion, "dbd", module+".dbd"),
		DB:         filepath.Join(modulePath, "db"),
		Startup:    filepath.Join(modulePath, "startup"),
		Bin:        filepath.Join(modulePath, l.EpicsVersion, "bin", l.Arch),
		Misc:       filepath.Join(modulePath, "misc"),
	}
}

// ResourceDirs lists the optional resource directories of a module in the
// order they are published.
func ResourceDirs(paths types.ModulePaths) []ResourceDir {
	return []ResourceDir{
		{Kind: types.ResourceDB, Path: paths.DB, Variable: EnvDBIncludePath},
		{Kind: types.ResourceStartup, Path: paths.Startup, Variable: EnvStartupIncludePath},
		{Kind: types.ResourceBin, Path: paths.Bin, Variable: EnvBinIncludePath},
		{Kind: types.ResourceMisc, Path: paths.Misc, Variable: EnvStreamProtocolPath},
	}
}

type ResourceDir struct {
	Kind     types.ResourceKind
	Path     string
	Variable string
}
