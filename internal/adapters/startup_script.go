package adapters

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"epics-require/internal/ports"
)

// StartupScriptAdapter records database and command requests as iocsh
// lines for an IOC that replays them at boot.
type StartupScriptAdapter struct {
	mu    sync.Mutex
	lines []string
}

func NewStartupScriptAdapter() *StartupScriptAdapter {
	return &StartupScriptAdapter{}
}

func (a *StartupScriptAdapter) LoadDatabase(_ context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("database path is empty")
	}
	a.append(fmt.Sprintf("dbLoadDatabase(%q)", path))
	return nil
}

func (a *StartupScriptAdapter) Invoke(_ context.Context, command string) error {
	if strings.TrimSpace(command) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("command is empty")
	}
	a.append(command)
	return nil
}

// Include records a snippet load.
func (a *StartupScriptAdapter) Include(path string) {
	a.append(fmt.Sprintf("iocshLoad(%q)", path))
}

// Comment records a comment line.
func (a *StartupScriptAdapter) Comment(text string) {
	a.append("# " + text)
}

func (a *StartupScriptAdapter) Lines() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.lines...)
}

func (a *StartupScriptAdapter) append(line string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lines = append(a.lines, line)
}

var (
	_ ports.DatabasePort = (*StartupScriptAdapter)(nil)
	_ ports.CommandPort  = (*StartupScriptAdapter)(nil)
)
