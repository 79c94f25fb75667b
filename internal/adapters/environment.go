package adapters

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"epics-require/internal/ports"
	"epics-require/internal/types"
)

// ProcessEnvironment reads and writes the variables of the running process.
type ProcessEnvironment struct{}

func NewProcessEnvironment() ProcessEnvironment {
	return ProcessEnvironment{}
}

func (ProcessEnvironment) Get(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (ProcessEnvironment) Set(name string, value string) error {
	if err := os.Setenv(name, value); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to set " + name).
			WithCause(err)
	}
	return nil
}

func (ProcessEnvironment) Environ() []string {
	return os.Environ()
}

// MapEnvironment is an in-memory environment seeded from KEY=VALUE entries.
type MapEnvironment struct {
	mu   sync.RWMutex
	vars map[string]string
}

func NewMapEnvironment(entries []string) *MapEnvironment {
	env := &MapEnvironment{vars: map[string]string{}}
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		env.vars[name] = value
	}
	return env
}

func (e *MapEnvironment) Get(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	value, ok := e.vars[name]
	return value, ok
}

func (e *MapEnvironment) Set(name string, value string) error {
	if name == "" || strings.ContainsRune(name, '=') {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid variable name: " + name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[name] = value
	return nil
}

func (e *MapEnvironment) Environ() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.vars))
	for name, value := range e.vars {
		out = append(out, name+"="+value)
	}
	sort.Strings(out)
	return out
}

// RecordingEnvironment forwards to Base and remembers every variable set
// through it, in first-set order.
type RecordingEnvironment struct {
	Base ports.EnvironmentPort

	mu      sync.Mutex
	order   []string
	changed map[string]bool
}

func NewRecordingEnvironment(base ports.EnvironmentPort) *RecordingEnvironment {
	return &RecordingEnvironment{Base: base, changed: map[string]bool{}}
}

func (e *RecordingEnvironment) Get(name string) (string, bool) {
	return e.Base.Get(name)
}

func (e *RecordingEnvironment) Set(name string, value string) error {
	if err := e.Base.Set(name, value); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.changed[name] {
		e.changed[name] = true
		e.order = append(e.order, name)
	}
	return nil
}

func (e *RecordingEnvironment) Environ() []string {
	return e.Base.Environ()
}

// Changes returns the current value of every variable set so far.
func (e *RecordingEnvironment) Changes() []types.EnvVar {
	e.mu.Lock()
	names := append([]string(nil), e.order...)
	e.mu.Unlock()
	out := make([]types.EnvVar, 0, len(names))
	for _, name := range names {
		value, _ := e.Base.Get(name)
		out = append(out, types.EnvVar{Name: name, Value: value})
	}
	return out
}

var (
	_ ports.EnvironmentPort = ProcessEnvironment{}
	_ ports.EnvironmentPort = (*MapEnvironment)(nil)
	_ ports.EnvironmentPort = (*RecordingEnvironment)(nil)
)
