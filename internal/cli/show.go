package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"epics-require/internal/app"
)

type showOptions struct {
	ReportDir string
}

func newShowCommand(engine *engineOptions) *cobra.Command {
	opts := showOptions{}
	cmd := &cobra.Command{
		Use:   "show [pattern]",
		Short: "List loaded modules whose name contains pattern",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			return runShow(cmd, engine, opts, pattern)
		},
	}
	cmd.Flags().StringVar(&opts.ReportDir, "from", "", "Read modules from a require output directory instead of the environment")
	return cmd
}

func runShow(cmd *cobra.Command, engine *engineOptions, opts showOptions, pattern string) error {
	service := newAppService()
	result, err := service.Show(app.ShowRequest{
		Config:    engineConfig(cmd, engine),
		Pattern:   pattern,
		ReportDir: opts.ReportDir,
	})
	if err != nil {
		return err
	}
	fmt.Print(renderModules(result.Modules))
	return nil
}
