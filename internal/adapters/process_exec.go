package adapters

import (
	"context"
	"os"
	"os/exec"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"epics-require/internal/ports"
	"epics-require/internal/types"
)

// ExecProcessAdapter starts module executables as child processes.
type ExecProcessAdapter struct{}

func NewExecProcessAdapter() ExecProcessAdapter {
	return ExecProcessAdapter{}
}

func (a ExecProcessAdapter) Run(ctx context.Context, spec types.ExecSpec) error {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Env = spec.Env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if spec.OutFile != "" {
		out, err := os.Create(spec.OutFile)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to open " + spec.OutFile).
				WithCause(err)
		}
		defer out.Close()
		cmd.Stdout = out
	}
	log.Ctx(ctx).Debug().Str("path", spec.Path).Strs("args", spec.Args).Msg("starting executable")
	if err := cmd.Start(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to start " + spec.Path).
			WithCause(err)
	}
	if !spec.Wait {
		return cmd.Process.Release()
	}
	if err := cmd.Wait(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(spec.Path + " failed").
			WithCause(err)
	}
	return nil
}

var _ ports.ProcessPort = ExecProcessAdapter{}
