// Package root contains the root command for the application
package root

import (
	"sync"

	"github.com/spf13/cobra"

	"kakeibo/internal/config"
	"kakeibo/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Owner      string
	ConfigFile string
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is loaded before any subcommand runs.
	AppConfig *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "kakeibo",
		Short: "Import Japanese credit card statements into a household ledger.",
		Long: `kakeibo imports Rakuten Card and SMBC card CSV exports in any common
Japanese encoding, deduplicates them per user and assigns categories by keyword.
It can also serve the same operations over an authenticated HTTP API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfigFrom(SharedFlags.ConfigFile)
			if err != nil {
				return err
			}
			if SharedFlags.LogLevel != "" {
				cfg.Log.Level = SharedFlags.LogLevel
			}
			AppConfig = cfg
			Log = config.NewLogger(cfg)
			return nil
		},
	}

	// SharedFlags holds flags accessible to all commands
	SharedFlags = CommonFlags{}

	initOnce sync.Once
)

// Init registers the persistent flags. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches $HOME/.kakeibo, ./.kakeibo and .)")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input statement file")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Owner, "user", "u", "", "Owner (user id) of the imported transactions")
		Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
	})
}
