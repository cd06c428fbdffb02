package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/photo-frame/internal/service/syncserver"
)

var (
	// syncDataDir holds the synced files.
	syncDataDir string
	// syncReleaseDir publishes release files when set.
	syncReleaseDir string

	syncServerCmd = &cobra.Command{
		Use:   "sync-server [listen-address]",
		Short: "Run the sync server backing synced storage.",
		Long: `Serves the files of synced storage over HTTP.

Only the port of sync_url is used for listening (e.g., :8087).
Listen address can be provided as argument to override config (e.g., 0.0.0.0:9090).
With --release-dir the files of that directory (version, program body) are
published under /release/ for the update check.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return syncserver.Run(ctx, &syncserver.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				DataDir:       syncDataDir,
				ReleaseDir:    syncReleaseDir,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	syncServerCmd.Flags().StringVarP(&syncDataDir, "data-dir", "d", "photo-frame-sync", "directory holding synced files")
	syncServerCmd.Flags().StringVarP(&syncReleaseDir, "release-dir", "r", "", "directory with release files to publish")
	rootCmd.AddCommand(syncServerCmd)
}
