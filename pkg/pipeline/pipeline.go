// Package pipeline wires decoded sources, schedulers and compositors to an
// encoder.
//
// A [Runner] executes three kinds of jobs:
//
//  1. Highlight: one wide multi-pane clip becomes a pane-width video whose
//     right half cycles through the feature panes.
//  2. Demo: several highlight scenes rendered back to back into one file.
//  3. Title: the animated gradient title is overlaid on an existing video.
//
// Frames are computed in parallel bounded batches and written to the sink
// strictly in index order. A job that fails or is cancelled aborts its
// sink, so no partial output file is left behind. Finished jobs are
// recorded in the render cache and skipped when their inputs, options and
// output are unchanged.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Highlight(ctx, pipeline.HighlightOptions{
//	    Input:  "bouquet/concat.mp4",
//	    Output: "bouquet_demo.mp4",
//	    Scene:  "Bouquet",
//	    Panes:  pipeline.Panes{Count: 5, BaselineLabel: "RGB", Features: features},
//	})
package pipeline

import (
	"context"
	"image"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/splitviz/pkg/cache"
	"github.com/matzehuels/splitviz/pkg/video"
)

// Source provides input metadata and decoded frames.
type Source interface {
	Probe(ctx context.Context, path string) (video.Info, error)
	Open(ctx context.Context, path string) (*video.Sequence, error)
}

// Sink consumes output frames in order. Close finalizes the output; Abort
// discards it.
type Sink interface {
	Size() image.Point
	WriteFrame(img *image.RGBA) error
	Close() error
	Abort() error
}

// SinkFunc opens a sink writing to path.
type SinkFunc func(ctx context.Context, path string, opts video.EncoderOptions) (Sink, error)

// Progress reports frames written for one job or demo scene.
type Progress struct {
	Job   string
	Done  int
	Total int
}

// Runner executes render jobs. It holds no per-job state, so one Runner
// may run several jobs concurrently.
type Runner struct {
	Cache      cache.Cache
	Keyer      cache.Keyer
	Logger     *log.Logger
	Source     Source
	NewSink    SinkFunc
	Workers    int            // frames computed concurrently; <= 0 uses GOMAXPROCS
	OnProgress func(Progress) // optional; called from the writing goroutine
}

// NewRunner returns a runner backed by ffmpeg. A nil cache disables
// caching; a nil keyer selects the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Source:  FFmpegSource{},
		NewSink: NewEncoderSink,
	}
}

// Result describes a finished job.
type Result struct {
	JobID     string
	Output    string
	Frames    int
	Resampled int
	FrameRate float64
	Size      image.Point
	Scenes    []SceneResult // demo only
	Cached    bool
	Elapsed   time.Duration
}

// SceneResult describes one scene of a demo.
type SceneResult struct {
	Label         string
	Frames        int
	SegmentLength int
	Resampled     int
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// FFmpegSource decodes with the ffmpeg and ffprobe binaries.
type FFmpegSource struct{}

// Probe implements Source.
func (FFmpegSource) Probe(ctx context.Context, path string) (video.Info, error) {
	return video.Probe(ctx, path)
}

// Open implements Source.
func (FFmpegSource) Open(ctx context.Context, path string) (*video.Sequence, error) {
	return video.Open(ctx, path)
}

// NewEncoderSink is the default SinkFunc, an ffmpeg encoder.
func NewEncoderSink(ctx context.Context, path string, opts video.EncoderOptions) (Sink, error) {
	enc, err := video.NewEncoder(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return enc, nil
}
