package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oshokin/photo-frame/internal/service/client"
)

var (
	// setOutput is where the large preview is written.
	setOutput string

	setCmd = &cobra.Command{
		Use:   "set <photo>",
		Short: "Set the widget photo and write a large preview.",
		Long: `Decodes the photo (PNG, JPEG or GIF), stores it in the cache as the widget
background and writes a preview of the large widget.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			session, err := client.Open(ctx, configPath)
			if err != nil {
				return err
			}

			photo, err := os.Open(filepath.Clean(args[0]))
			if err != nil {
				return fmt.Errorf("open photo: %w", err)
			}

			defer func() {
				_ = photo.Close()
			}()

			return writeOutput(cmd, setOutput, func(w io.Writer) error {
				return session.SetPhoto(ctx, photo, w)
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	setCmd.Flags().StringVarP(&setOutput, "out", "o", "photo-frame-Large.png", `preview file, "-" for stdout`)
	rootCmd.AddCommand(setCmd)
}
