// Package upload implements the statement import command.
package upload

import (
	"errors"

	"github.com/spf13/cobra"

	"kakeibo/cmd/common"
	"kakeibo/cmd/root"
	"kakeibo/internal/container"
)

var (
	dryRun         bool
	categoriesFile string
)

// Cmd represents the upload command
var Cmd = &cobra.Command{
	Use:   "upload",
	Short: "Import a card statement CSV",
	Long: `Import a Rakuten Card or SMBC card statement. The encoding and layout are
detected automatically; rows already imported for the same user are counted as
duplicates. Expense categories with matching keywords are assigned on import.`,
	RunE: runUpload,
}

func init() {
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and classify in memory without a database")
	Cmd.Flags().StringVar(&categoriesFile, "categories", "", "Categories YAML used with --dry-run")
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := common.RequireOwner(root.SharedFlags.Owner); err != nil {
		return err
	}
	if categoriesFile != "" && !dryRun {
		return errors.New("--categories can only be used with --dry-run")
	}

	f, err := common.OpenInput(root.SharedFlags.Input)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	c, err := common.BuildContainer(cmd.Context(), container.Options{DryRun: dryRun, CategoriesFile: categoriesFile})
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
	}()

	result, err := c.GetImporter().Upload(cmd.Context(), root.SharedFlags.Owner, f)
	if err != nil {
		return err
	}
	return common.PrintJSON(cmd.OutOrStdout(), result)
}
