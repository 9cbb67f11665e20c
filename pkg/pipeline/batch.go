package pipeline

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is one document of a batch.
type Job struct {
	Name        string
	Raw         []byte
	ContentType string
}

// BatchResult pairs a job with its outcome. A failed document does not
// stop the batch; its error is recorded here.
type BatchResult struct {
	Name   string
	Result *Result
	Err    error
}

// RenderBatch renders independent documents concurrently with at most
// workers in flight. Results keep the order of jobs. Cancelling ctx stops
// scheduling new documents; jobs that never started report ctx.Err().
func (p *Pipeline) RenderBatch(ctx context.Context, jobs []Job, workers int) ([]BatchResult, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]BatchResult, len(jobs))
	for i, job := range jobs {
		results[i] = BatchResult{Name: job.Name}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		if err := gctx.Err(); err != nil {
			for j := i; j < len(jobs); j++ {
				results[j].Err = err
			}
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			res, err := p.Render(job.Raw, job.ContentType)
			if err != nil {
				p.logger.Warn("document failed", zap.String("name", job.Name), zap.Error(err))
			}
			results[i].Result = res
			results[i].Err = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
