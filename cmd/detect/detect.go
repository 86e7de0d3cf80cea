// Package detect implements the format detection command.
package detect

import (
	"github.com/spf13/cobra"

	"kakeibo/cmd/common"
	"kakeibo/cmd/root"
	"kakeibo/internal/container"
)

// Cmd represents the detect command
var Cmd = &cobra.Command{
	Use:   "detect",
	Short: "Show the detected encoding and card vendor of a statement",
	RunE:  runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	f, err := common.OpenInput(root.SharedFlags.Input)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	c, err := common.BuildContainer(cmd.Context(), container.Options{DryRun: true})
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
	}()

	inspection, err := c.GetImporter().Inspect(f)
	if err != nil {
		return err
	}
	return common.PrintJSON(cmd.OutOrStdout(), inspection)
}
