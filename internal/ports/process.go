package ports

import (
	"context"

	"epics-require/internal/types"
)

// ProcessPort runs an executable shipped by a module.
type ProcessPort interface {
	Run(ctx context.Context, spec types.ExecSpec) error
}
