package ports

import "context"

// CommandPort invokes a named command in the host shell.
type CommandPort interface {
	Invoke(ctx context.Context, command string) error
}

// DatabasePort loads a database definition (.dbd) file.
type DatabasePort interface {
	LoadDatabase(ctx context.Context, path string) error
}
