package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"epics-require/internal/app"
	"epics-require/internal/types"
)

type snippetOptions struct {
	Modules []string
}

func newSnippetCommand(engine *engineOptions) *cobra.Command {
	opts := snippetOptions{}
	cmd := &cobra.Command{
		Use:   "snippet name",
		Short: "Print the iocshLoad line for a startup snippet shipped by a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnippet(cmd, engine, opts, args[0])
		},
	}
	cmd.Flags().StringArrayVar(&opts.Modules, "module", nil, "Modules to load first (module[,version])")
	return cmd
}

func runSnippet(cmd *cobra.Command, engine *engineOptions, opts snippetOptions, name string) error {
	var modules []types.ModuleRequest
	for _, arg := range opts.Modules {
		module, err := app.ParseModuleArg(arg)
		if err != nil {
			return err
		}
		modules = append(modules, module)
	}
	service := newAppService()
	result, err := service.Snippet(cmd.Context(), app.SnippetRequest{
		Config:  engineConfig(cmd, engine),
		Modules: modules,
		Snippet: name,
	})
	if err != nil {
		return err
	}
	fmt.Printf("iocshLoad(%q)\n", result.Path)
	return nil
}
