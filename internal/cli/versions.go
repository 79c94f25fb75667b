package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"epics-require/internal/app"
)

func newVersionsCommand(engine *engineOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "versions module",
		Short: "List installed versions of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := newAppService()
			result, err := service.Versions(app.VersionsRequest{
				Config: engineConfig(cmd, engine),
				Module: args[0],
			})
			if err != nil {
				return err
			}
			fmt.Print(renderVersions(result.Versions))
			return nil
		},
	}
}
