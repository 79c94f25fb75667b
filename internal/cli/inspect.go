package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"epics-require/internal/app"
)

type inspectOptions struct {
	OutputDir string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect the outputs of a previous require run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Output directory")
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(app.InspectRequest{
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("requested: %d\n", len(result.Requested))
	for _, request := range result.Requested {
		if request.Version == "" {
			fmt.Printf("- %s\n", request.Module)
			continue
		}
		fmt.Printf("- %s %s\n", request.Module, request.Version)
	}
	fmt.Printf("loaded: %d\n", len(result.Loaded))
	fmt.Print(renderModules(result.Loaded))
	fmt.Printf("environment variables: %d\n", len(result.Environment))
	for _, env := range result.Environment {
		fmt.Printf("- %s=%s\n", env.Name, env.Value)
	}
	fmt.Printf("startup commands: %d\n", result.StartupCount)
	return nil
}
