package adapters

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/afero"

	"epics-require/internal/ports"
)

// CheckLoader verifies that a library file can be opened without mapping
// it. It backs dry runs and hosts that load libraries themselves later.
type CheckLoader struct {
	Fs     afero.Fs
	loaded []string
}

func NewCheckLoader(fsys afero.Fs) *CheckLoader {
	return &CheckLoader{Fs: fsys}
}

func (l *CheckLoader) Load(_ context.Context, path string) error {
	file, err := l.Fs.Open(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("cannot open library " + path).
			WithCause(err)
	}
	_ = file.Close()
	l.loaded = append(l.loaded, path)
	return nil
}

// Loaded lists the checked libraries in load order.
func (l *CheckLoader) Loaded() []string {
	return append([]string(nil), l.loaded...)
}

var _ ports.LibraryLoaderPort = (*CheckLoader)(nil)
