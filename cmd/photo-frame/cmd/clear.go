package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/photo-frame/internal/service/client"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all caches.",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		session, err := client.Open(ctx, configPath)
		if err != nil {
			return err
		}

		return session.Clear(ctx)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(clearCmd)
}
