// Package pkg provides the libraries behind splitviz, a renderer for
// research demo videos.
//
// # Overview
//
// A simulation renders every quantity of interest side by side in one wide
// clip: RGB, material class, stiffness, density and so on, each in its own
// pane. splitviz turns that clip into a pane-wide comparison video. The left
// half of each output frame shows the baseline pane, the right half steps
// through the feature panes with a label per feature, and a scene label sits
// bottom left. A second job overlays an animated gradient title on any video.
//
// # Architecture
//
//	multi-pane clip (ffmpeg decode)
//	         ↓
//	    [pane] geometry (pane width, regions)
//	         ↓
//	    [schedule] segment plan (which feature shows on output frame i)
//	         ↓
//	    [split] compositor (halves, crossfade, divider, labels)
//	         ↓
//	    ffmpeg encode
//
// The title job replaces the middle stages with [title]: a pre-rendered text
// block whose word is recolored per frame and blended in under a fade
// envelope.
//
// # Quick Start
//
//	layout, _ := pane.Resolve(2560, 512, 5)
//	plan, _ := schedule.NewPlan(seq.Len(), 1, len(features))
//	sched, _ := schedule.New(plan, features, 0)
//	comp, _ := split.New(layout)
//
//	for i := 0; i < sched.Len(); i++ {
//	    step := sched.At(i)
//	    out, _ := comp.Compose(seq.Frame(step.SourceIndex), split.MixFor(step),
//	        split.Labels{Baseline: "RGB", Feature: step.Label, Scene: "Cube"})
//	    enc.WriteFrame(out)
//	}
//
// # Main Packages
//
// ## Compositing
//
// [pane] - Splits a frame into equal-width panes and validates the count.
//
// [schedule] - Segment plans and the per-frame scheduler, including
// crossfade windows around segment boundaries.
//
// [split] - The pane-split compositor: left half from the baseline pane,
// right half from the active feature pane, a white divider and shadowed
// labels scaled to the frame height.
//
// [title] - Gradient, fade envelope, text block renderer and the per-frame
// title compositor.
//
// [fonts] - Embedded default faces and TrueType/OpenType loading.
//
// ## Media
//
// [video] - ffprobe metadata, ffmpeg decode to RGBA frame sequences, the
// streaming encoder and resampling.
//
// ## Orchestration
//
// [pipeline] - Highlight, demo and title jobs with parallel frame rendering,
// ordered encoding and the render cache. Used by the CLI.
//
// [cache] - File-backed render records keyed by job, input stamps and
// options.
//
// [config] - TOML configuration with defaults and validation.
//
// ## Support
//
// [errors] - Error codes shared by every package.
//
// [observability] - Pipeline and cache hooks for logging and metrics.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./...                 # All tests
//	go test ./pkg/split/...       # Specific package
//
// Pipeline tests use in-memory sources and sinks. The [video] round-trip
// tests need ffmpeg and ffprobe on PATH and skip without them.
//
// [pane]: https://pkg.go.dev/github.com/matzehuels/splitviz/pkg/pane
// [schedule]: https://pkg.go.dev/github.com/matzehuels/splitviz/pkg/schedule
// [split]: https://pkg.go.dev/github.com/matzehuels/splitviz/pkg/split
// [title]: https://pkg.go.dev/github.com/matzehuels/splitviz/pkg/title
// [fonts]: https://pkg.go.dev/github.com/matzehuels/splitviz/pkg/fonts
// [video]: https://pkg.go.dev/github.com/matzehuels/splitviz/pkg/video
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/splitviz/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/splitviz/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/splitviz/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/splitviz/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/splitviz/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/splitviz/pkg/buildinfo
package pkg
