// Package serve implements the HTTP API command.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kakeibo/cmd/common"
	"kakeibo/cmd/root"
	"kakeibo/internal/api"
	"kakeibo/internal/container"
	"kakeibo/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the import and ledger API over HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := root.AppConfig
	if err := cfg.RequireServer(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := common.BuildContainer(ctx, container.Options{})
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
	}()

	app := api.NewRouter(c.GetImporter(), c.GetLedger(), api.Options{
		JWTSecret:   cfg.Server.JWTSecret,
		BodyLimitMB: cfg.Server.BodyLimitMB,
		Metrics:     c.GetMetrics(),
	}, c.GetLogger())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()
	c.GetLogger().Info("HTTP server listening", logging.F("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.GetLogger().Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
