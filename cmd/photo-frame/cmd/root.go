package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/photo-frame/internal/config"
	"github.com/oshokin/photo-frame/internal/version"
)

// stdoutPath selects standard output instead of a file.
const stdoutPath = "-"

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "photo-frame",
		Short: "Show a cached photo as a home screen widget.",
		Long: `Keeps one photo in a local or synced cache and renders it as a widget.

Set a photo once, then render the widget at any of the supported sizes.
The cache lives under <documents_dir>/cache/photoFrame; with synced storage
every change is mirrored to the sync server so other devices see it too.

The program can also check for a newer release and replace itself.`,
		SilenceUsage: true,
	}
)

// Execute runs the photo-frame CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// writeOutput runs render against path, or against stdout for "-".
func writeOutput(cmd *cobra.Command, path string, render func(io.Writer) error) error {
	if path == stdoutPath {
		return render(cmd.OutOrStdout())
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err = render(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)

		return err
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Widget written to %s\n", path)

	return nil
}
