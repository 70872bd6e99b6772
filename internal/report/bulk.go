package report

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/normalize"
)

// BulkJob is one report in a batch.
type BulkJob struct {
	Input   normalize.Input
	Request Request
}

// BulkResult is the outcome of one BulkJob.
type BulkResult struct {
	Err    error
	Report *Report
	UserID string
	Index  int
}

// BulkSummary tallies a batch.
type BulkSummary struct {
	Results   []BulkResult
	Succeeded int
	Failed    int
}

// GenerateBulk generates one report per job with bounded concurrency. A
// failing job never aborts the batch. onDone, when set, is called once per
// finished job from the worker goroutine, serialized by the engine.
// Results are returned in job order.
func (e *Engine) GenerateBulk(ctx context.Context, jobs []BulkJob, onDone func(BulkResult)) BulkSummary {
	results := make([]BulkResult, len(jobs))

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(e.config.BulkConcurrency)

	for i, job := range jobs {
		g.Go(func() error {
			res := e.runJob(ctx, i, job)
			results[i] = res
			if onDone != nil {
				mu.Lock()
				onDone(res)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := BulkSummary{Results: results}
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}

	e.deps.Logger.Info("Bulk generation complete",
		"jobs", len(jobs),
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)

	return summary
}

func (e *Engine) runJob(ctx context.Context, index int, job BulkJob) (res BulkResult) {
	res = BulkResult{Index: index, UserID: job.Request.UserID}

	defer func() {
		if r := recover(); r != nil {
			res.Report = nil
			res.Err = fmt.Errorf("report generation panicked: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	report, err := e.Generate(ctx, job.Request, job.Input)
	if err != nil {
		e.deps.Logger.Error("Report generation failed",
			"user", job.Request.UserID,
			"error", err)
		res.Err = err
		return res
	}
	res.Report = report
	return res
}
