package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/splitviz/pkg/cache"
	"github.com/matzehuels/splitviz/pkg/observability"
)

// cached runs job unless the cache holds a record for the same inputs and
// options whose output still exists. Inputs that cannot be stamped skip
// the cache; job then reports the missing source itself.
func (r *Runner) cached(ctx context.Context, kind string, inputs []string, opts any, output string, job func(jobID string) (*Result, error)) (*Result, error) {
	hooks := observability.Cache()
	jobID := uuid.NewString()
	start := time.Now()
	log := r.Logger.With("job", kind, "id", jobID[:8])

	key, ok := r.renderKey(kind, inputs, opts)
	out, _ := filepath.Abs(output)
	if ok {
		if rec, hit := cache.Lookup(ctx, r.Cache, key); hit && rec.Valid(out) {
			hooks.OnCacheHit(ctx, kind)
			log.Info("output up to date, skipping", "output", output, "frames", rec.Frames)
			return &Result{
				JobID:     rec.JobID,
				Output:    output,
				Frames:    rec.Frames,
				Resampled: rec.Resampled,
				Cached:    true,
				Elapsed:   time.Since(start),
			}, nil
		}
		hooks.OnCacheMiss(ctx, kind)
	}

	res, err := job(jobID)
	if err != nil {
		return nil, err
	}
	res.JobID = jobID
	res.Elapsed = time.Since(start)
	log.Info("render complete",
		"output", output,
		"frames", res.Frames,
		"fps", res.FrameRate,
		"resampled", res.Resampled,
		"duration", res.Elapsed.Round(time.Millisecond))

	if ok {
		rec := cache.Record{
			JobID:     jobID,
			Output:    out,
			Frames:    res.Frames,
			Resampled: res.Resampled,
			CreatedAt: time.Now().UTC(),
		}
		if n, err := cache.Store(ctx, r.Cache, key, rec); err != nil {
			log.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, kind, n)
		}
	}
	return res, nil
}

func (r *Runner) renderKey(kind string, inputs []string, opts any) (string, bool) {
	stamps := make([]cache.Stamp, len(inputs))
	for i, in := range inputs {
		s, err := cache.StampFile(in)
		if err != nil {
			return "", false
		}
		stamps[i] = s
	}
	return r.Keyer.RenderKey(kind, stamps, opts), true
}
