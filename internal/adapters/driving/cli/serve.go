package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-learn/internal/adapters/driving/api"
	"github.com/custodia-labs/sercha-learn/internal/app"
)

// shutdownTimeout bounds graceful shutdown of the HTTP API.
const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API server.

Endpoints:
  POST /api/search            {"topic": "..."}        gather videos and papers
  POST /api/semantic_search   {"query": "...", "k": 5} search gathered resources
  GET  /api/health                                     liveness check
  GET  /api/capabilities                               enabled optional features
  GET  /metrics                                        Prometheus metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :5000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withApp(ctx, func(a *app.App) error {
		addr := a.Config.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		server := api.NewServer(a.Orchestrator, api.Config{
			Addr:        addr,
			CORSOrigins: a.Config.Server.CORSOrigins,
		})

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()
		cmd.Printf("HTTP API listening on %s\n", server.Addr())

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
}
