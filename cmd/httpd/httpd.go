// Package httpd implements the HTTP server command for the blogharvest
// service. It serves the REST API and handles graceful shutdown on SIGINT
// or SIGTERM.
package httpd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	cmdcommon "blogharvest/cmd/common"
	"blogharvest/internal/api"
)

const (
	errorChannelBufferSize = 1
	defaultShutdownTimeout = 30 * time.Second
)

// Command returns the httpd command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP server exposing the harvest and article endpoints.
The server runs until interrupted with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, debug := cmdcommon.RootFlags(cmd)
			deps, err := cmdcommon.Build(cfgFile, debug)
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer deps.Close()

			router := api.SetupRouter(deps.Logger, deps.Ingestor, deps.Articles)
			server := api.NewServer(deps.Config.Server, router, deps.Logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, errorChannelBufferSize)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				deps.Logger.Info("Shutdown signal received")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return err
				}
				return <-errCh
			}
		},
	}
}
