package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) OnDecodeStart(_ context.Context, path string) {
	h.logger.Debug("decode start", "path", path)
}

func (h *LogHooks) OnDecodeComplete(_ context.Context, path string, frames int, d time.Duration, err error) {
	h.done("decode", err, "path", path, "frames", frames, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, job string, frames int) {
	h.logger.Debug("render start", "job", job, "frames", frames)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, job string, frames int, d time.Duration, err error) {
	h.done("render", err, "job", job, "frames", frames, "duration", d)
}

func (h *LogHooks) OnResample(_ context.Context, job string, frames int) {
	h.logger.Debug("resampled", "job", job, "frames", frames)
}

func (h *LogHooks) OnEncodeComplete(_ context.Context, path string, frames int, d time.Duration, err error) {
	h.done("encode", err, "path", path, "frames", frames, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, job string)  { h.logger.Debug("cache hit", "job", job) }
func (h *LogHooks) OnCacheMiss(_ context.Context, job string) { h.logger.Debug("cache miss", "job", job) }
func (h *LogHooks) OnCacheSet(_ context.Context, job string, size int) {
	h.logger.Debug("cache set", "job", job, "bytes", size)
}

func (h *LogHooks) done(stage string, err error, kv ...any) {
	if err != nil {
		h.logger.Debug(stage+" failed", append(kv, "error", err)...)
		return
	}
	h.logger.Debug(stage+" complete", kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
