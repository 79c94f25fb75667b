package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"epics-require/internal/app"
	"epics-require/internal/types"
)

type execOptions struct {
	OutFile      string
	NoWait       bool
	ArgLine      string
	SkipIfExists string
}

func newExecCommand(engine *engineOptions) *cobra.Command {
	opts := execOptions{}
	cmd := &cobra.Command{
		Use:   "exec module[,version] executable [-- args...]",
		Short: "Run an executable shipped by a module",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, engine, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.OutFile, "out", "", "Redirect standard output to this file")
	cmd.Flags().BoolVar(&opts.NoWait, "no-wait", false, "Start the executable and return immediately")
	cmd.Flags().StringVar(&opts.ArgLine, "args", "", "Argument line split like a shell would")
	cmd.Flags().StringVar(&opts.SkipIfExists, "unless-exists", "", "Skip execution when this file exists")
	return cmd
}

func runExec(cmd *cobra.Command, engine *engineOptions, opts execOptions, args []string) error {
	module := types.ModuleRequest{}
	if args[0] != "-" {
		parsed, err := app.ParseModuleArg(args[0])
		if err != nil {
			return err
		}
		module = parsed
	}
	service := newAppService()
	result, err := service.Exec(cmd.Context(), app.ExecRequest{
		Config:       engineConfig(cmd, engine),
		Module:       module,
		Executable:   args[1],
		Args:         args[2:],
		ArgLine:      opts.ArgLine,
		OutFile:      opts.OutFile,
		NoWait:       opts.NoWait,
		SkipIfExists: opts.SkipIfExists,
	})
	if err != nil {
		return err
	}
	if result.Skipped {
		fmt.Printf("%s exists, nothing to do\n", opts.SkipIfExists)
	}
	return nil
}
