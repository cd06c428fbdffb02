package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/photo-frame/internal/presenter"
	"github.com/oshokin/photo-frame/internal/service/updater"
)

var checkUpdateCmd = &cobra.Command{
	Use:   "check-update",
	Short: "Check for updates to the latest version.",
	Long: `Fetches the latest version token and, when it is newer than the running
version, replaces <documents_dir>/<program_name> with the published program.
Launch the program again afterwards to use the new version.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return updater.Run(ctx, &updater.Options{
			ConfigPath: configPath,
			Presenter:  presenter.NewConsole(cmd.OutOrStdout(), cmd.InOrStdin()),
		})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(checkUpdateCmd)
}
