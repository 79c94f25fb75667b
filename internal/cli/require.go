package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"epics-require/internal/app"
)

type requireOptions struct {
	Version   string
	OutputDir string
	AfterInit bool
	NoLoad    bool
}

func newRequireCommand(engine *engineOptions) *cobra.Command {
	opts := requireOptions{}
	cmd := &cobra.Command{
		Use:   "require module[,version] [module[,version]...]",
		Short: "Load modules and their dependencies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequire(cmd.Context(), cmd, engine, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.Version, "version", "", "Version of a single requested module")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Directory for modules.yaml, env.sh and startup.cmd")
	cmd.Flags().BoolVar(&opts.AfterInit, "after-init", false, "Report failures instead of aborting")
	cmd.Flags().BoolVar(&opts.NoLoad, "no-load", false, "Check libraries without loading them")
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("after_init", cmd.Flags().Lookup("after-init"))
	_ = viper.BindPFlag("no_load", cmd.Flags().Lookup("no-load"))
	return cmd
}

func runRequire(ctx context.Context, cmd *cobra.Command, engine *engineOptions, opts requireOptions, args []string) error {
	modules, err := app.ParseModuleArgs(args, opts.Version)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Require(ctx, app.RequireRequest{
		Config:    engineConfig(cmd, engine),
		Modules:   modules,
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
		AfterInit: resolveBool(cmd, opts.AfterInit, "after_init", "after-init"),
		NoLoad:    resolveBool(cmd, opts.NoLoad, "no_load", "no-load"),
	})
	if err != nil {
		return err
	}
	for _, activation := range result.Activations {
		if activation.AlreadyLoaded {
			fmt.Printf("%s %s already loaded\n", activation.Module, activation.Version)
			continue
		}
		fmt.Printf("loaded %s %s\n", activation.Module, activation.Version)
	}
	for _, failure := range result.Failures {
		fmt.Printf("Nothing loaded: %s (%s)\n", failure.Module, failure.Message)
	}
	fmt.Print(renderModules(result.Loaded))
	if result.OutputDir != "" {
		fmt.Printf("outputs written to %s\n", result.OutputDir)
	}
	return nil
}
