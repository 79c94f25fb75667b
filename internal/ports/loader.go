package ports

import "context"

// LibraryLoaderPort loads a native library into the host process. The
// handle is owned by the loader; the engine only needs pass/fail.
type LibraryLoaderPort interface {
	Load(ctx context.Context, path string) error
}
