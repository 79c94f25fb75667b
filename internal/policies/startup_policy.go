package policies

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"epics-require/internal/shared"
)

const abortMessage = "Nothing loaded. Aborting startup script."

// StartupPolicy decides what a failed require means for the surrounding
// startup script. Before the IOC is initialised nothing can recover from a
// missing module, so the failure aborts the script; afterwards it is only
// reported.
type StartupPolicy struct {
	AfterInit bool
}

// Outcome is the verdict for one failed require.
type Outcome struct {
	Fatal   bool
	Message string
	Err     error
}

func (p StartupPolicy) Evaluate(err error) Outcome {
	if err == nil {
		return Outcome{}
	}
	if p.AfterInit {
		return Outcome{Message: "Nothing loaded.", Err: err}
	}
	return Outcome{
		Fatal:   true,
		Message: abortMessage,
		Err: errbuilder.New().
			WithCode(errbuilder.CodeOf(err)).
			WithMsg(fmt.Sprintf("%s: %s", shared.ErrorMessage(err), abortMessage)).
			WithCause(err),
	}
}
