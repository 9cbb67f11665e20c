package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDumpCommand(a *app) *cobra.Command {
	var (
		showLayout bool
		showHTML   bool
		authorCSS  string
	)

	dumpCmd := &cobra.Command{
		Use:   "dump <file|url>",
		Short: "Print the document tree, the layout tree with --layout, or normalized HTML with --html.",
		Args:  cobra.ExactArgs(1),
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
			switch {
			case showLayout:
				fmt.Fprint(cmd.OutOrStdout(), result.Layout.Dump())
				return nil
			case showHTML:
				fmt.Fprintln(cmd.OutOrStdout(), result.Document.Root.Serialize())
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), result.Document.Dump())
			return nil
		},
	}

	dumpCmd.Flags().BoolVar(&showLayout, "layout", false, "print the layout tree with box geometry")
	dumpCmd.Flags().BoolVar(&showHTML, "html", false, "print the parsed document re-serialized as HTML")
	dumpCmd.MarkFlagsMutuallyExclusive("layout", "html")
	dumpCmd.Flags().StringVar(&authorCSS, "css", "", "extra stylesheet file or URL applied after the document's styles")
	return dumpCmd
}
