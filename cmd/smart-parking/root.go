package main

import (
	"github.com/spf13/cobra"
)

var (
	flagPort  string
	flagStore string
)

var rootCmd = &cobra.Command{
	Use:   "smart-parking",
	Short: "Smart parking lot slot allocation service",
	Long: `smart-parking tracks parking slot inventory and allocates free slots to
incoming vehicles by matching covered and EV charging requirements.

Run it as an HTTP API (serve), an interactive shell (shell), both at once
(both), or use seed to load the sample slot catalogue into the store.

Configuration comes from the environment (APP_PORT, STORE_DRIVER,
DATABASE_URL, BADGER_PATH, OTEL_*); --port and --store override it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPort, "port", "", "HTTP port (overrides APP_PORT)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "slot store: memory, postgres or badger (overrides STORE_DRIVER)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
