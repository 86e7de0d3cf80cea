// Package autoassign implements the retroactive categorization command.
package autoassign

import (
	"errors"

	"github.com/spf13/cobra"

	"kakeibo/cmd/common"
	"kakeibo/cmd/root"
	"kakeibo/internal/container"
)

// Cmd represents the auto-assign command
var Cmd = &cobra.Command{
	Use:   "auto-assign",
	Short: "Assign categories to uncategorized transactions by keyword",
	Long: `Run keyword classification over every uncategorized transaction of a user.
Positive amounts are matched against income categories, all others against
expense categories. With --dry-run the ledger is empty and categories are
read from YAML, which is useful to validate a categories file.`,
	RunE: runAutoAssign,
}

var (
	dryRun         bool
	categoriesFile string
)

func init() {
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Use an in-memory ledger instead of the database")
	Cmd.Flags().StringVar(&categoriesFile, "categories", "", "Categories YAML used with --dry-run")
}

func runAutoAssign(cmd *cobra.Command, args []string) error {
	if err := common.RequireOwner(root.SharedFlags.Owner); err != nil {
		return err
	}
	if categoriesFile != "" && !dryRun {
		return errors.New("--categories can only be used with --dry-run")
	}

	c, err := common.BuildContainer(cmd.Context(), container.Options{DryRun: dryRun, CategoriesFile: categoriesFile})
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
	}()

	result, err := c.GetImporter().AutoAssign(cmd.Context(), root.SharedFlags.Owner)
	if err != nil {
		return err
	}
	return common.PrintJSON(cmd.OutOrStdout(), result)
}
