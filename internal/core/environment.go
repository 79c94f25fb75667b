package core

import (
	"fmt"
	"strings"

	"epics-require/internal/ports"
)

const (
	EnvModulesPath        = "EPICS_MODULES_PATH"
	EnvModuleIncludePath  = "EPICS_MODULE_INCLUDE_PATH"
	EnvEpicsBase          = "EPICS_BASE"
	EnvDBIncludePath      = "EPICS_DB_INCLUDE_PATH"
	EnvStartupIncludePath = "REQUIRE_STARTUP_INCLUDE_PATH"
	EnvBinIncludePath     = "REQUIRE_BIN_INCLUDE_PATH"
	EnvStreamProtocolPath = "STREAM_PROTOCOL_PATH"
	EnvLibraryPath        = "LD_LIBRARY_PATH"
)

const (
	moduleVarPrefix     = "REQUIRE_"
	moduleVersionSuffix = "_VERSION"
	modulePathSuffix    = "_PATH"
)

// ModuleVersionVar is the variable publishing the loaded version of module.
func ModuleVersionVar(module string) string {
	return moduleVarPrefix + module + moduleVersionSuffix
}

// ModulePathVar is the variable publishing the directory of module.
func ModulePathVar(module string) string {
	return moduleVarPrefix + module + modulePathSuffix
}

// moduleFromVersionVar extracts the module name from a REQUIRE_<m>_VERSION
// entry. Search-path variables sharing the prefix are rejected.
func moduleFromVersionVar(name string) (string, bool) {
	if !strings.HasPrefix(name, moduleVarPrefix) || !strings.HasSuffix(name, moduleVersionSuffix) {
		return "", false
	}
	module := strings.TrimSuffix(strings.TrimPrefix(name, moduleVarPrefix), moduleVersionSuffix)
	if module == "" {
		return "", false
	}
	return module, true
}

// appendSearchPath appends dir to the list variable name. An unset variable
// starts with the current directory so relative lookups keep working.
func appendSearchPath(env ports.EnvironmentPort, name string, dir string, sep string) (string, error) {
	current, ok := env.Get(name)
	if !ok || current == "" {
		current = "."
	}
	value := current + sep + dir
	if err := env.Set(name, value); err != nil {
		return "", fmt.Errorf("set %s: %w", name, err)
	}
	return value, nil
}

// SplitSearchPath splits a search-path value and drops empty elements.
func SplitSearchPath(value string, sep string) []string {
	var out []string
	for _, part := range strings.Split(value, sep) {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
