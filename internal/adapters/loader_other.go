//go:build !darwin && !linux

package adapters

import (
	"context"
	"runtime"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"epics-require/internal/ports"
)

// DlopenLoader is unavailable on this platform; every Load fails.
type DlopenLoader struct{}

func NewDlopenLoader() *DlopenLoader {
	return &DlopenLoader{}
}

func (l *DlopenLoader) Load(_ context.Context, path string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("dynamic loading is not supported on " + runtime.GOOS + ": " + path)
}

var _ ports.LibraryLoaderPort = (*DlopenLoader)(nil)
