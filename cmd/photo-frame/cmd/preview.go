package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oshokin/photo-frame/internal/domain/frame"
	"github.com/oshokin/photo-frame/internal/presenter"
	"github.com/oshokin/photo-frame/internal/service/client"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Pick a widget size and write a preview of it.",
	Long: `Offers the widget sizes available on this device and writes the chosen one
to photo-frame-<size>.png in the working directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		session, err := client.Open(ctx, configPath)
		if err != nil {
			return err
		}

		console := presenter.NewConsole(cmd.ErrOrStderr(), cmd.InOrStdin())

		// The file name depends on the chosen size, render into memory first.
		var (
			buf    bytes.Buffer
			family frame.Family
		)

		family, err = session.Preview(ctx, console, &buf)
		if errors.Is(err, client.ErrCanceled) {
			return nil
		}

		if err != nil {
			return err
		}

		return writeOutput(cmd, fmt.Sprintf("photo-frame-%s.png", family), func(w io.Writer) error {
			_, writeErr := buf.WriteTo(w)
			return writeErr
		})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(previewCmd)
}
