package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yates-Labs/linkforge/internal/orchestrator"
	"github.com/Yates-Labs/linkforge/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form and JSON API",
	Long: `Start the HTTP server.

Routes:
  GET  /               interactive form
  POST /               form submission
  POST /generate       JSON generation endpoint (alias /api/generate)
  GET  /api/options    accepted tones and templates
  GET  /healthz        liveness

Examples:
  linkforge serve
  linkforge serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	orch, err := orchestrator.New(cfg.Orchestrator(), orchestrator.WithLogger(logger))
	if err != nil {
		if errors.Is(err, orchestrator.ErrMissingCredential) {
			return fmt.Errorf("%w (set GROQ_API_KEY or LINKFORGE_API_KEY)", err)
		}
		return err
	}

	srv, err := server.New(orch, server.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		SessionSecret:  cfg.Server.SessionSecret,
		CookieSecure:   cfg.Server.CookieSecure,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
		return err
	}
	return <-errCh
}
