// ABOUTME: Dispatch layer running chunk tasks sequentially or on a bounded pool
// ABOUTME: Failed chunks are logged and dropped; results keep submission order
package signal

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cerebra-health/cerebra-go/pkg/frame"
)

// Dispatch runs every task and returns the successfully decoded frames
// in submission order, independent of completion order. concurrency 1
// runs tasks in the calling goroutine; higher values use a bounded
// pool. Each worker writes only its own result slot, and the pool is
// fully drained before results are read.
//
// A failed chunk is logged with its identity and dropped; it never
// fails the batch and is not retried. Callers that need to detect gaps
// can compare len(tasks) against the number of returned frames.
func (f *Fetcher) Dispatch(ctx context.Context, tasks []Task, concurrency int) []*frame.Frame {
	if len(tasks) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*frame.Frame, len(tasks))
	if concurrency == 1 {
		for i, task := range tasks {
			results[i] = f.fetchOne(ctx, task)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(concurrency)
		for i, task := range tasks {
			i, task := i, task
			g.Go(func() error {
				results[i] = f.fetchOne(ctx, task)
				return nil
			})
		}
		// Workers never return errors; failures are logged per chunk.
		_ = g.Wait()
	}

	out := make([]*frame.Frame, 0, len(tasks))
	for _, fr := range results {
		if fr != nil {
			out = append(out, fr)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (f *Fetcher) fetchOne(ctx context.Context, task Task) *frame.Frame {
	fr, err := f.FetchDecode(ctx, task)
	if err != nil {
		f.log.Warn("skipping chunk",
			zap.String("study", task.StudyID),
			zap.String("channel_group", task.ChannelGroupID),
			zap.String("segment", task.SegmentID),
			zap.Int("chunk", task.ChunkIndex),
			zap.Error(err))
		return nil
	}
	return fr
}
