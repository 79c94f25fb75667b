package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"epics-require/internal/core"
	"epics-require/internal/types"
)

type engineOptions struct {
	ModulesPath     string
	IncludePath     string
	EpicsBase       string
	EpicsVersion    string
	Arch            string
	LocalModulesDir string
	BuildDir        string
	Inherit         bool
}

func bindEngineFlags(cmd *cobra.Command, opts *engineOptions) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ModulesPath, "modules-path", "", "Root of the installed module tree")
	flags.StringVar(&opts.IncludePath, "include-path", "", "Search path for system libraries")
	flags.StringVar(&opts.EpicsBase, "epics-base", "", "EPICS base directory holding default version files")
	flags.StringVar(&opts.EpicsVersion, "epics-version", "", "EPICS release the modules were built for")
	flags.StringVar(&opts.Arch, "arch", "", "Target architecture")
	flags.StringVar(&opts.LocalModulesDir, "local-modules", "modules", "Directory of locally built modules")
	flags.StringVar(&opts.BuildDir, "build-dir", "builddir", "Build directory inside each local module")
	flags.BoolVar(&opts.Inherit, "inherit", false, "Treat modules published in the environment as loaded")
	_ = viper.BindPFlag("modules_path", flags.Lookup("modules-path"))
	_ = viper.BindPFlag("module_include_path", flags.Lookup("include-path"))
	_ = viper.BindPFlag("epics_base", flags.Lookup("epics-base"))
	_ = viper.BindPFlag("epics_version", flags.Lookup("epics-version"))
	_ = viper.BindPFlag("arch", flags.Lookup("arch"))
	_ = viper.BindPFlag("local_modules_dir", flags.Lookup("local-modules"))
	_ = viper.BindPFlag("build_dir", flags.Lookup("build-dir"))
	_ = viper.BindPFlag("inherit_environment", flags.Lookup("inherit"))
}

// bindEngineEnv lets the standard EPICS variables stand in for the
// prefixed ones.
func bindEngineEnv() {
	_ = viper.BindEnv("modules_path", envPrefix+"_MODULES_PATH", core.EnvModulesPath)
	_ = viper.BindEnv("module_include_path", envPrefix+"_MODULE_INCLUDE_PATH", core.EnvModuleIncludePath)
	_ = viper.BindEnv("epics_base", envPrefix+"_EPICS_BASE", core.EnvEpicsBase)
	_ = viper.BindEnv("epics_version", envPrefix+"_EPICS_VERSION", "EPICS_VERSION_TAG")
	_ = viper.BindEnv("arch", envPrefix+"_ARCH", "T_A", "EPICS_HOST_ARCH")
}

func engineConfig(cmd *cobra.Command, opts *engineOptions) types.EngineConfig {
	return types.EngineConfig{
		ModulesPath:     resolveString(cmd, opts.ModulesPath, "modules_path", "modules-path"),
		IncludePath:     resolveString(cmd, opts.IncludePath, "module_include_path", "include-path"),
		EpicsBase:       resolveString(cmd, opts.EpicsBase, "epics_base", "epics-base"),
		EpicsVersion:    resolveString(cmd, opts.EpicsVersion, "epics_version", "epics-version"),
		Arch:            resolveString(cmd, opts.Arch, "arch", "arch"),
		LocalModulesDir: resolveString(cmd, opts.LocalModulesDir, "local_modules_dir", "local-modules"),
		BuildDir:        resolveString(cmd, opts.BuildDir, "build_dir", "build-dir"),
		Inherit:         resolveBool(cmd, opts.Inherit, "inherit_environment", "inherit"),
	}
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
