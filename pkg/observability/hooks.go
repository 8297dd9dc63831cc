// Package observability provides hooks around the render pipeline.
//
// Hooks keep instrumentation out of the frame-processing packages: the
// pipeline emits events through the registered implementation and the
// default is a no-op. Register hooks once at startup:
//
//	observability.SetPipelineHooks(observability.NewLogHooks(logger))
//
// The pipeline emits events as it works:
//
//	observability.Pipeline().OnDecodeStart(ctx, path)
//	// ... decode ...
//	observability.Pipeline().OnDecodeComplete(ctx, path, frames, elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from render jobs.
type PipelineHooks interface {
	// Decode events, one pair per input video.
	OnDecodeStart(ctx context.Context, path string)
	OnDecodeComplete(ctx context.Context, path string, frames int, duration time.Duration, err error)

	// Render events, one pair per job (highlight, demo scene or title).
	OnRenderStart(ctx context.Context, job string, frames int)
	OnRenderComplete(ctx context.Context, job string, frames int, duration time.Duration, err error)

	// OnResample records composited frames resized to the output size.
	OnResample(ctx context.Context, job string, frames int)

	// OnEncodeComplete fires when the output file is finalized or discarded.
	OnEncodeComplete(ctx context.Context, path string, frames int, duration time.Duration, err error)
}

// CacheHooks receives events from the render cache.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, job string)
	OnCacheMiss(ctx context.Context, job string)
	OnCacheSet(ctx context.Context, job string, size int)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDecodeStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnDecodeComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnResample(context.Context, string, int)                             {}
func (NoopPipelineHooks) OnEncodeComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
