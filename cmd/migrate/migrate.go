// Package migrate implements the schema migration command.
package migrate

import (
	"github.com/spf13/cobra"

	"kakeibo/cmd/root"
	"kakeibo/internal/store/postgres"
)

// Cmd represents the migrate command
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := postgres.NewPool(cmd.Context(), root.AppConfig)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgres.Migrate(cmd.Context(), pool, root.Log); err != nil {
			return err
		}
		root.Log.Info("Database is up to date")
		return nil
	},
}
