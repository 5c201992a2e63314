package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilnbuild/kiln/internal/app"
	"github.com/kilnbuild/kiln/internal/core/domain"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the firmware image under src/ into build/",
		RunE: func(cmd *cobra.Command, _ []string) error {
			compiler, _ := cmd.Flags().GetString("cc")
			linker, _ := cmd.Flags().GetString("ld")
			objcopy, _ := cmd.Flags().GetString("objcopy")
			buildID, _ := cmd.Flags().GetString("build-id")

			root, _, err := app.BuildFirmwareGraph(
				c.components.Discoverer,
				c.components.DB,
				c.components.Runner,
				c.components.Inspector,
				c.components.Logger,
				app.ToolConfig{Compiler: compiler, Linker: linker, ObjCopy: objcopy, BuildID: buildID},
			)
			if err != nil {
				return err
			}

			result, err := c.components.App.Run(cmd.Context(), root)
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d targets executed\n", result.CompletedJobs, result.TotalJobs)

			// A structural failure (a cycle, a bad config) means execute
			// never ran and nothing new was observed; saving now would
			// overwrite a good depdb.json with an empty one. Once the
			// engine actually ran, persist whatever it observed even if
			// some targets failed, so the next build still benefits from
			// the ones that succeeded.
			if err == nil || errors.Is(err, domain.ErrBuildExecutionFailed) {
				if saveErr := c.components.DB.Save(); saveErr != nil {
					return errors.Join(err, saveErr)
				}
			}
			return err
		},
	}
	cmd.Flags().String("cc", "cc", "Compiler used to build each source file")
	cmd.Flags().String("ld", "cc", "Linker used to produce the firmware image")
	cmd.Flags().String("objcopy", "objcopy", "Tool used to convert the linked image to a raw binary")
	cmd.Flags().String("build-id", "dev", "Build identifier stamped into the version source")
	return cmd
}
