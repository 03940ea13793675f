package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"smart-parking/internal/logging"
	"smart-parking/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer a.close()

	srv := server.NewServer(a.cfg, a.lot)
	serverDone := startServer(srv)

	select {
	case err := <-serverDone:
		return err
	case <-ctx.Done():
		logging.Info(context.Background(), "received shutdown signal")
	}

	return shutdownServer(a, srv)
}

func startServer(srv *server.Server) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := srv.Start()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
	}()
	return done
}

func shutdownServer(a *app, srv *server.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error(ctx, "server shutdown error", "error", err)
		return err
	}
	return nil
}
