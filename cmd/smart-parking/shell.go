package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"smart-parking/internal/logging"
	"smart-parking/internal/parking"
	"smart-parking/internal/server"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run the interactive slot shell on stdin",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

var bothCmd = &cobra.Command{
	Use:   "both",
	Short: "Run the HTTP API and the interactive shell together",
	Args:  cobra.NoArgs,
	RunE:  runBoth,
}

func init() {
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(bothCmd)
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Fprintln(os.Stdout, "Smart parking shell. Type 'help' for commands, 'exit' to quit.")
	<-startShell(ctx, a)
	return nil
}

func runBoth(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	srv := server.NewServer(a.cfg, a.lot)
	serverDone := startServer(srv)
	fmt.Fprintf(os.Stdout, "HTTP API listening on %s\n", srv.GetAddress())

	select {
	case err := <-serverDone:
		return err
	case <-startShell(ctx, a):
		logging.Info(context.Background(), "shell exited")
	}

	return shutdownServer(a, srv)
}

// startShell closes the returned channel when the shell exits or ctx is
// cancelled. A shell blocked on stdin is left behind on cancellation.
func startShell(ctx context.Context, a *app) <-chan struct{} {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		parking.NewShell(a.lot, os.Stdin, os.Stdout, a.telemetry.Tracer).Run(ctx)
	}()

	go func() {
		defer close(done)
		select {
		case <-finished:
		case <-ctx.Done():
		}
	}()

	return done
}
