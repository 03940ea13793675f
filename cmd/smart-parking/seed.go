package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the sample slot catalogue in the configured store",
	Long: `Creates slots 1-6 with a mix of covered and EV charging features.
Slots that already exist are left untouched, so running it twice is safe.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	created, err := a.lot.SeedSamples(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Sample slots added successfully (%d created)\n", created)
	return nil
}
