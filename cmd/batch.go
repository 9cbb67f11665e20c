package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blockrender/pkg/fetch"
	"blockrender/pkg/pipeline"
	"blockrender/pkg/render"
)

func newBatchCommand(a *app) *cobra.Command {
	var (
		outDir    string
		format    string
		authorCSS string
	)

	batchCmd := &cobra.Command{
		Use:   "batch <file|url>...",
		Short: "Render many documents concurrently.",
		Long: `Render every argument independently, at most --workers at a time, writing
<out-dir>/<name>.<format> for each. A failing document does not stop the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ext := render.Format(strings.ToLower(format))
			if _, err := render.FormatFromPath("x." + string(ext)); err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			p, err := a.newPipeline(ctx, authorCSS)
			if err != nil {
				return err
			}

			f := a.fetcher()
			names := jobNames(args)
			jobs := make([]pipeline.Job, 0, len(args))
			var failed []error
			for i, target := range args {
				raw, contentType, err := fetch.ReadSource(ctx, f, target)
				if err != nil {
					failed = append(failed, err)
					a.logger.Warn("skipping document", zap.String("source", target), zap.Error(err))
					continue
				}
				jobs = append(jobs, pipeline.Job{Name: names[i], Raw: raw, ContentType: contentType})
			}

			results, err := p.RenderBatch(ctx, jobs, a.cfg.Render.Workers)
			for _, r := range results {
				if r.Err != nil {
					failed = append(failed, fmt.Errorf("%s: %w", r.Name, r.Err))
					continue
				}
				out := filepath.Join(outDir, r.Name+"."+string(ext))
				if err := r.Result.Canvas.Save(out); err != nil {
					failed = append(failed, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", r.Name, out)
			}
			if err != nil {
				return err
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d documents failed: %w", len(failed), len(args), errors.Join(failed...))
			}
			return nil
		},
	}

	batchCmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for rendered images")
	batchCmd.Flags().StringVar(&format, "format", "ppm", "output format: ppm, png or bmp")
	batchCmd.Flags().IntP("workers", "w", 4, "documents rendered concurrently")
	batchCmd.Flags().StringVar(&authorCSS, "css", "", "extra stylesheet file or URL applied to every document")
	return batchCmd
}

// jobNames derives an output stem per source. Repeated stems get a numeric
// suffix so no output overwrites another.
func jobNames(targets []string) []string {
	seen := make(map[string]int, len(targets))
	names := make([]string, len(targets))
	for i, target := range targets {
		stem := sourceStem(target)
		if stem == "" {
			stem = "document"
		}
		seen[stem]++
		if n := seen[stem]; n > 1 {
			stem = fmt.Sprintf("%s-%d", stem, n)
		}
		names[i] = stem
	}
	return names
}

func sourceStem(target string) string {
	base := filepath.Base(strings.TrimPrefix(target, "file://"))
	if fetch.IsNetworkURL(target) {
		u, err := url.Parse(target)
		if err != nil {
			return ""
		}
		base = path.Base(u.Path)
		if base == "/" || base == "." {
			base = u.Hostname()
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
