package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oshokin/photo-frame/internal/domain/frame"
	"github.com/oshokin/photo-frame/internal/service/client"
)

var (
	// renderFamily is the widget size to render.
	renderFamily string
	// renderOutput is where the widget is written.
	renderOutput string

	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Render the widget without asking anything.",
		Long: `Renders the widget with the cached photo as background, or a placeholder
when nothing is cached. This is what a widget host runs on every refresh.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			family, err := frame.ParseFamily(renderFamily)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			session, err := client.Open(ctx, configPath)
			if err != nil {
				return err
			}

			output := renderOutput
			if output == "" {
				output = fmt.Sprintf("photo-frame-%s.png", family)
			}

			return writeOutput(cmd, output, func(w io.Writer) error {
				return session.Render(ctx, family, w)
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	renderCmd.Flags().StringVarP(&renderFamily, "family", "f", frame.FamilySmall.String(), "widget size: Small, Medium, Large or ExtraLarge")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", `output file, "-" for stdout (default photo-frame-<family>.png)`)
	rootCmd.AddCommand(renderCmd)
}
