package core

import (
	"sort"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"epics-require/internal/ports"
	"epics-require/internal/types"
)

// Registry is the append-only list of modules loaded into this process,
// most recent first. Every registration is also published to the
// environment so child processes can observe it.
type Registry struct {
	mu      sync.RWMutex
	entries []types.LoadedModule
	env     ports.EnvironmentPort
}

func NewRegistry(env ports.EnvironmentPort) *Registry {
	return &Registry{env: env}
}

// Lookup returns the version registered for name.
func (r *Registry) Lookup(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.entries {
		if entry.Name == name {
			return entry.Version, true
		}
	}
	return "", false
}

// Register publishes the version and then prepends a new entry. A failed
// publish leaves the registry unchanged. Callers check Lookup first;
// registering a name twice creates two entries.
func (r *Registry) Register(name string, version string) error {
	if r.env != nil {
		if err := r.env.Set(ModuleVersionVar(name), version); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to publish module version").
				WithCause(err)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]types.LoadedModule{{Name: name, Version: version}}, r.entries...)
	return nil
}

// List returns the entries whose name contains pattern, most recent first.
// An empty pattern lists everything.
func (r *Registry) List(pattern string) []types.LoadedModule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.LoadedModule, 0, len(r.entries))
	for _, entry := range r.entries {
		if pattern != "" && !strings.Contains(entry.Name, pattern) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Len is the number of registry entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Inherit registers every module a parent process already published through
// REQUIRE_<module>_VERSION that this registry does not know yet. It returns
// the number of modules added.
func (r *Registry) Inherit() int {
	if r.env == nil {
		return 0
	}
	var inherited []types.LoadedModule
	for _, kv := range r.env.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		module, ok := moduleFromVersionVar(name)
		if !ok || value == "" {
			continue
		}
		if _, known := r.Lookup(module); known {
			continue
		}
		inherited = append(inherited, types.LoadedModule{Name: module, Version: value})
	}
	sort.Slice(inherited, func(i, j int) bool {
		return inherited[i].Name > inherited[j].Name
	})
	r.mu.Lock()
	r.entries = append(r.entries, inherited...)
	r.mu.Unlock()
	return len(inherited)
}
