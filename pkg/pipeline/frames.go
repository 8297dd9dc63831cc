package pipeline

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/splitviz/pkg/observability"
	"github.com/matzehuels/splitviz/pkg/video"
)

// batchFactor sets how many frames per worker are held before writing.
const batchFactor = 4

// renderFunc computes output frame i.
type renderFunc func(i int) (*image.RGBA, error)

// emit renders n frames in parallel batches and writes them to sink in
// order. Frames whose size differs from the sink are resampled; the count
// is returned.
func (r *Runner) emit(ctx context.Context, sink Sink, job string, n int, render renderFunc) (int, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, job, n)
	start := time.Now()

	resampled, err := r.emitBatches(ctx, sink, job, n, render)

	hooks.OnRenderComplete(ctx, job, n, time.Since(start), err)
	if resampled > 0 {
		hooks.OnResample(ctx, job, resampled)
	}
	return resampled, err
}

func (r *Runner) emitBatches(ctx context.Context, sink Sink, job string, n int, render renderFunc) (int, error) {
	size := sink.Size()
	workers := r.workers()
	batch := make([]*image.RGBA, workers*batchFactor)
	resampled := 0

	for lo := 0; lo < n; lo += len(batch) {
		hi := min(lo+len(batch), n)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		var fits atomic.Int64
		for i := lo; i < hi; i++ {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				img, err := render(i)
				if err != nil {
					return fmt.Errorf("frame %d: %w", i, err)
				}
				img, changed := video.Fit(img, size.X, size.Y)
				if changed {
					fits.Add(1)
				}
				batch[i-lo] = img
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return resampled, err
		}
		resampled += int(fits.Load())

		for i := lo; i < hi; i++ {
			if err := sink.WriteFrame(batch[i-lo]); err != nil {
				return resampled, err
			}
			batch[i-lo] = nil
			r.progress(job, i+1, n)
		}
	}
	return resampled, nil
}

func (r *Runner) progress(job string, done, total int) {
	if r.OnProgress != nil {
		r.OnProgress(Progress{Job: job, Done: done, Total: total})
	}
}

// encode opens a sink, runs body and finalizes the output. Any failure,
// including cancellation, aborts the sink so no partial file survives.
func (r *Runner) encode(ctx context.Context, path string, opts video.EncoderOptions, body func(Sink) (int, error)) (frames int, err error) {
	sink, err := r.NewSink(ctx, path, opts)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	defer func() {
		observability.Pipeline().OnEncodeComplete(ctx, path, frames, time.Since(start), err)
	}()

	frames, err = body(sink)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if abortErr := sink.Abort(); abortErr != nil {
			r.Logger.Warn("discard partial output", "path", path, "error", abortErr)
		}
		return frames, err
	}
	if err := sink.Close(); err != nil {
		return frames, fmt.Errorf("finalize %s: %w", path, err)
	}
	return frames, nil
}

// open decodes path through the runner's source, emitting hooks.
func (r *Runner) open(ctx context.Context, path string) (*video.Sequence, error) {
	hooks := observability.Pipeline()
	hooks.OnDecodeStart(ctx, path)
	start := time.Now()

	seq, err := r.Source.Open(ctx, path)

	n := 0
	if seq != nil {
		n = seq.Len()
	}
	hooks.OnDecodeComplete(ctx, path, n, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("decoded source",
		"path", path,
		"frames", n,
		"size", fmt.Sprintf("%dx%d", seq.Width, seq.Height),
		"fps", seq.FrameRate,
		"duration", time.Since(start).Round(time.Millisecond))
	return seq, nil
}
