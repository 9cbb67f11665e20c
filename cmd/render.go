package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		output    string
		authorCSS string
	)

	renderCmd := &cobra.Command{
		Use:   "render <file|url>",
		Short: "Render one document to an image.",
		Long: `Render one HTML document through parsing, styling, block layout and painting.
The output encoding follows the extension of --output: .ppm (plain P3), .png or .bmp.
Use "-" to write PPM to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.newPipeline(ctx, authorCSS)
			if err != nil {
				return err
			}
			result, err := a.renderSource(ctx, p, args[0])
			if err != nil {
				return fmt.Errorf("rendering %s: %w", args[0], err)
			}

			if output == "-" {
				return result.Canvas.WritePPM(cmd.OutOrStdout())
			}
			if err := result.Canvas.Save(output); err != nil {
				return err
			}
			a.logger.Info("wrote image",
				zap.String("source", args[0]),
				zap.String("output", output),
				zap.Int("boxes", result.Layout.Count()))
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully rendered %s to %s\n", args[0], output)
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d boxes\n", result.Layout.Count())
			return nil
		},
	}

	renderCmd.Flags().StringVarP(&output, "output", "o", "out.ppm", "output image (.ppm, .png or .bmp, or - for PPM on stdout)")
	renderCmd.Flags().StringVar(&authorCSS, "css", "", "extra stylesheet file or URL applied after the document's styles")
	return renderCmd
}
