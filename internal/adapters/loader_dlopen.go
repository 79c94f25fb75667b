//go:build darwin || linux

package adapters

import (
	"context"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/ebitengine/purego"
	"github.com/rs/zerolog/log"

	"epics-require/internal/ports"
)

// DlopenLoader maps shared libraries into the running process with global
// symbol visibility so later libraries can resolve against earlier ones.
// Libraries stay mapped for the life of the process.
type DlopenLoader struct {
	mu      sync.Mutex
	handles map[string]uintptr
}

func NewDlopenLoader() *DlopenLoader {
	return &DlopenLoader{handles: map[string]uintptr{}}
}

func (l *DlopenLoader) Load(ctx context.Context, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.handles[path]; ok {
		return nil
	}
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("dlopen failed: " + path).
			WithCause(err)
	}
	log.Ctx(ctx).Debug().Str("path", path).Msg("library mapped")
	l.handles[path] = handle
	return nil
}

var _ ports.LibraryLoaderPort = (*DlopenLoader)(nil)
