package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/splitviz/pkg/cache"
	"github.com/matzehuels/splitviz/pkg/errors"
	"github.com/matzehuels/splitviz/pkg/schedule"
	"github.com/matzehuels/splitviz/pkg/video"
)

var features = []schedule.Feature{
	{Pane: 1, Label: "Material"},
	{Pane: 2, Label: "Young E"},
	{Pane: 3, Label: "Density"},
	{Pane: 4, Label: "Poisson"},
}

// makeClip builds n frames of panes side by side. In frame f, pane p has
// R=f and G=40*p.
func makeClip(n, panes, paneW, h int, fps float64) *video.Sequence {
	seq := &video.Sequence{Width: panes * paneW, Height: h, FrameRate: fps}
	for f := 0; f < n; f++ {
		img := image.NewRGBA(image.Rect(0, 0, panes*paneW, h))
		for y := 0; y < h; y++ {
			for x := 0; x < panes*paneW; x++ {
				img.SetRGBA(x, y, color.RGBA{uint8(f), uint8(40 * (x / paneW)), 0, 255})
			}
		}
		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

type fakeSource struct {
	clips map[string]*video.Sequence
}

func (s *fakeSource) Probe(_ context.Context, path string) (video.Info, error) {
	seq, ok := s.clips[path]
	if !ok {
		return video.Info{}, errors.New(errors.ErrCodeSourceUnavailable, "open %s", path)
	}
	return video.Info{Path: path, Width: seq.Width, Height: seq.Height, FrameRate: seq.FrameRate, FrameCount: seq.Len()}, nil
}

func (s *fakeSource) Open(ctx context.Context, path string) (*video.Sequence, error) {
	if _, err := s.Probe(ctx, path); err != nil {
		return nil, err
	}
	return s.clips[path], nil
}

type fakeSink struct {
	path    string
	opts    video.EncoderOptions
	frames  []*image.RGBA
	closed  bool
	aborted bool
}

func (s *fakeSink) Size() image.Point { return image.Pt(s.opts.Width, s.opts.Height) }

func (s *fakeSink) WriteFrame(img *image.RGBA) error {
	if img.Bounds().Size() != s.Size() {
		return errors.New(errors.ErrCodeDimensionMismatch, "bad frame size %v", img.Bounds().Size())
	}
	s.frames = append(s.frames, img)
	return nil
}

func (s *fakeSink) Close() error {
	s.closed = true
	return os.WriteFile(s.path, []byte("video"), 0o644)
}

func (s *fakeSink) Abort() error {
	s.aborted = true
	return nil
}

type harness struct {
	runner *Runner
	mu     sync.Mutex
	sinks  []*fakeSink
}

func newHarness(t *testing.T, clips map[string]*video.Sequence) *harness {
	t.Helper()
	h := &harness{}
	r := NewRunner(nil, nil, log.New(io.Discard))
	r.Source = &fakeSource{clips: clips}
	r.NewSink = func(_ context.Context, path string, opts video.EncoderOptions) (Sink, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		s := &fakeSink{path: path, opts: opts}
		h.sinks = append(h.sinks, s)
		return s, nil
	}
	r.Workers = 3
	h.runner = r
	return h
}

func (h *harness) lastSink(t *testing.T) *fakeSink {
	t.Helper()
	if len(h.sinks) == 0 {
		t.Fatal("no sink was opened")
	}
	return h.sinks[len(h.sinks)-1]
}

func highlightOpts(t *testing.T) HighlightOptions {
	return HighlightOptions{
		Input:    "bouquet.mp4",
		Output:   filepath.Join(t.TempDir(), "bouquet_demo.mp4"),
		Scene:    "Bouquet",
		Repeat:   2,
		Panes:    Panes{Count: 5, BaselineLabel: "RGB", Features: features},
		Encoding: Encoding{FPS: 30},
	}
}

func TestHighlightScenarioA(t *testing.T) {
	h := newHarness(t, map[string]*video.Sequence{"bouquet.mp4": makeClip(150, 5, 40, 60, 30)})
	var last Progress
	h.runner.OnProgress = func(p Progress) {
		if p.Done <= last.Done && last.Job == p.Job {
			t.Errorf("progress went from %d to %d", last.Done, p.Done)
		}
		last = p
	}

	res, err := h.runner.Highlight(context.Background(), highlightOpts(t))
	if err != nil {
		t.Fatalf("Highlight() error = %v", err)
	}
	sink := h.lastSink(t)

	if res.Frames != 300 || len(sink.frames) != 300 {
		t.Fatalf("frames = %d (sink %d), want 300", res.Frames, len(sink.frames))
	}
	if res.Size != image.Pt(40, 60) || res.FrameRate != 30 || res.Resampled != 0 {
		t.Errorf("result = %+v", res)
	}
	if !sink.closed || sink.aborted {
		t.Errorf("sink closed=%v aborted=%v", sink.closed, sink.aborted)
	}
	if last.Done != 300 || last.Total != 300 {
		t.Errorf("final progress = %+v", last)
	}

	for i, f := range sink.frames {
		if got, want := f.RGBAAt(1, 30).R, uint8(i%150); got != want {
			t.Fatalf("frame %d shows source frame %d, want %d", i, got, want)
		}
	}

	// Right half shows G = 40 * active pane.
	tests := []struct {
		frame int
		pane  int
	}{
		{0, 1}, {74, 1}, {75, 2}, {149, 2}, {150, 3}, {225, 4}, {299, 4},
	}
	for _, tt := range tests {
		if got := sink.frames[tt.frame].RGBAAt(30, 30).G; got != uint8(40*tt.pane) {
			t.Errorf("frame %d right half G = %d, want pane %d", tt.frame, got, tt.pane)
		}
	}
}

func TestHighlightDeterministicAcrossWorkers(t *testing.T) {
	clips := map[string]*video.Sequence{"bouquet.mp4": makeClip(20, 5, 40, 60, 30)}
	opts := highlightOpts(t)
	opts.Panes.CrossfadeFrames = 2

	var out [][]*image.RGBA
	for _, workers := range []int{1, 4} {
		h := newHarness(t, clips)
		h.runner.Workers = workers
		if _, err := h.runner.Highlight(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
		out = append(out, h.lastSink(t).frames)
	}
	for i := range out[0] {
		if !bytes.Equal(out[0][i].Pix, out[1][i].Pix) {
			t.Fatalf("frame %d differs between 1 and 4 workers", i)
		}
	}
}

func TestHighlightErrors(t *testing.T) {
	tests := []struct {
		name   string
		clip   *video.Sequence
		mutate func(*HighlightOptions)
		code   errors.Code
	}{
		{"degenerate plan", makeClip(3, 5, 40, 60, 30), func(o *HighlightOptions) { o.Repeat = 1 }, errors.ErrCodeDegenerateSegmentPlan},
		{"missing source", makeClip(3, 5, 40, 60, 30), func(o *HighlightOptions) { o.Input = "missing.mp4" }, errors.ErrCodeSourceUnavailable},
		{"indeterminate rate", makeClip(8, 5, 40, 60, 0), func(o *HighlightOptions) { o.Encoding.FPS = 0 }, errors.ErrCodeFrameRateIndeterminate},
		{"feature pane out of range", makeClip(8, 5, 40, 60, 30), func(o *HighlightOptions) {
			o.Panes.Features = []schedule.Feature{{Pane: 5, Label: "x"}}
		}, errors.ErrCodeInvalidConfig},
		{"crossfade too long", makeClip(8, 5, 40, 60, 30), func(o *HighlightOptions) { o.Panes.CrossfadeFrames = 3 }, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, map[string]*video.Sequence{"bouquet.mp4": tt.clip})
			opts := highlightOpts(t)
			tt.mutate(&opts)
			_, err := h.runner.Highlight(context.Background(), opts)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Highlight() error = %v, want %s", err, tt.code)
			}
			if len(h.sinks) != 0 {
				t.Error("sink opened for a job that should fail up front")
			}
		})
	}
}

func TestHighlightFallbackRate(t *testing.T) {
	h := newHarness(t, map[string]*video.Sequence{"bouquet.mp4": makeClip(8, 5, 40, 60, 0)})
	opts := highlightOpts(t)
	opts.Encoding = Encoding{FallbackFPS: 24}

	res, err := h.runner.Highlight(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.FrameRate != 24 || h.lastSink(t).opts.FrameRate != 24 {
		t.Errorf("frame rate = %v, want fallback 24", res.FrameRate)
	}
}

func TestCancelledJobDiscardsOutput(t *testing.T) {
	h := newHarness(t, map[string]*video.Sequence{"bouquet.mp4": makeClip(20, 5, 40, 60, 30)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := highlightOpts(t)
	_, err := h.runner.Highlight(ctx, opts)
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("Highlight() error = %v, want context.Canceled", err)
	}
	sink := h.lastSink(t)
	if !sink.aborted || sink.closed {
		t.Errorf("sink aborted=%v closed=%v, want aborted only", sink.aborted, sink.closed)
	}
	if _, err := os.Stat(opts.Output); !os.IsNotExist(err) {
		t.Error("output exists after cancellation")
	}
}

func TestDemoResamplesLaterScenes(t *testing.T) {
	h := newHarness(t, map[string]*video.Sequence{
		"bouquet.mp4": makeClip(10, 5, 40, 60, 30),
		"bonsai.mp4":  makeClip(8, 5, 80, 120, 30),
	})
	opts := DemoOptions{
		Scenes: []Scene{
			{Input: "bouquet.mp4", Label: "Bouquet", Repeat: 1},
			{Input: "bonsai.mp4", Label: "Bonsai", Repeat: 2},
		},
		Output:   filepath.Join(t.TempDir(), "demo.mp4"),
		Panes:    Panes{Count: 5, BaselineLabel: "RGB", Features: features},
		Encoding: Encoding{FPS: 30},
	}

	res, err := h.runner.Demo(context.Background(), opts)
	if err != nil {
		t.Fatalf("Demo() error = %v", err)
	}
	sink := h.lastSink(t)

	// Re-derived plans: (10/4)*1*4 = 8 and (8/4)*2*4 = 16 frames.
	if res.Frames != 24 || len(sink.frames) != 24 {
		t.Fatalf("frames = %d (sink %d), want 24", res.Frames, len(sink.frames))
	}
	if res.Resampled != 16 {
		t.Errorf("resampled = %d, want 16", res.Resampled)
	}
	if len(res.Scenes) != 2 || res.Scenes[0].SegmentLength != 2 || res.Scenes[1].SegmentLength != 4 {
		t.Errorf("scenes = %+v", res.Scenes)
	}
	if res.Size != image.Pt(40, 60) {
		t.Errorf("size = %v, want first scene pane size", res.Size)
	}
	if !sink.closed {
		t.Error("sink not closed")
	}
}

func TestDemoMissingSceneAborts(t *testing.T) {
	h := newHarness(t, map[string]*video.Sequence{"bouquet.mp4": makeClip(10, 5, 40, 60, 30)})
	opts := DemoOptions{
		Scenes:   []Scene{{Input: "bouquet.mp4", Label: "Bouquet"}, {Input: "vasedeck.mp4", Label: "Vasedeck"}},
		Output:   filepath.Join(t.TempDir(), "demo.mp4"),
		Panes:    Panes{Count: 5, Features: features},
		Encoding: Encoding{FPS: 30},
	}
	_, err := h.runner.Demo(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeSourceUnavailable) {
		t.Fatalf("Demo() error = %v", err)
	}
	if s := h.lastSink(t); !s.aborted {
		t.Error("partial demo was not discarded")
	}
}

func titleOpts(t *testing.T) TitleOptions {
	return TitleOptions{
		Input:        "clip.mp4",
		Output:       filepath.Join(t.TempDir(), "titled.mp4"),
		Word:         "Pixie",
		Subtitle:     "Physics from Pixels",
		WordSize:     40,
		SubtitleSize: 16,
		LineSpacing:  4,
		Stops:        []color.RGBA{{255, 110, 196, 255}, {120, 115, 245, 255}, {255, 110, 196, 255}},
		Duration:     1.0,
		Fade:         0.25,
	}
}

func TestTitle(t *testing.T) {
	clip := makeClip(20, 1, 400, 200, 10)
	h := newHarness(t, map[string]*video.Sequence{"clip.mp4": clip})

	res, err := h.runner.Title(context.Background(), titleOpts(t))
	if err != nil {
		t.Fatalf("Title() error = %v", err)
	}
	sink := h.lastSink(t)
	if res.Frames != 20 || len(sink.frames) != 20 || res.FrameRate != 10 {
		t.Fatalf("result = %+v, sink frames %d", res, len(sink.frames))
	}

	for i, f := range sink.frames {
		same := bytes.Equal(f.Pix, clip.Frames[i].Pix)
		// t = i/10: envelope is 0 at t=0 and the title ends at t=1.
		wantSame := i == 0 || i >= 10
		if same != wantSame {
			t.Errorf("frame %d unchanged=%v, want %v", i, same, wantSame)
		}
	}
}

func TestTitleIndeterminateRate(t *testing.T) {
	h := newHarness(t, map[string]*video.Sequence{"clip.mp4": makeClip(4, 1, 400, 200, 0)})

	_, err := h.runner.Title(context.Background(), titleOpts(t))
	if !errors.Is(err, errors.ErrCodeFrameRateIndeterminate) {
		t.Fatalf("Title() error = %v, want FRAME_RATE_INDETERMINATE", err)
	}

	opts := titleOpts(t)
	opts.Encoding.FallbackFPS = 20
	if _, err := h.runner.Title(context.Background(), opts); err != nil {
		t.Errorf("Title() with fallback error = %v", err)
	}
}

func TestRenderCache(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bouquet.mp4")
	if err := os.WriteFile(input, []byte("source"), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	h := newHarness(t, map[string]*video.Sequence{input: makeClip(8, 5, 40, 60, 30)})
	h.runner.Cache = fc
	opts := highlightOpts(t)
	opts.Input = input
	opts.Repeat = 1

	first, err := h.runner.Highlight(context.Background(), opts)
	if err != nil || first.Cached {
		t.Fatalf("first run: %+v, %v", first, err)
	}

	second, err := h.runner.Highlight(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || second.JobID != first.JobID || second.Frames != first.Frames {
		t.Errorf("second run = %+v, want cached copy of %+v", second, first)
	}
	if len(h.sinks) != 1 {
		t.Errorf("sinks opened = %d, want 1", len(h.sinks))
	}

	opts.Scene = "Other"
	if third, err := h.runner.Highlight(context.Background(), opts); err != nil || third.Cached {
		t.Errorf("changed options: %+v, %v", third, err)
	}

	if err := os.Remove(opts.Output); err != nil {
		t.Fatal(err)
	}
	if fourth, err := h.runner.Highlight(context.Background(), opts); err != nil || fourth.Cached {
		t.Errorf("deleted output: %+v, %v", fourth, err)
	}
}

func TestCheckConsistency(t *testing.T) {
	a := video.Info{Width: 1920, Height: 1080, FrameRate: 30}
	tests := []struct {
		name  string
		infos []video.Info
		want  Consistency
	}{
		{"empty", nil, Consistency{true, true}},
		{"single", []video.Info{a}, Consistency{true, true}},
		{"same", []video.Info{a, a}, Consistency{true, true}},
		{"rate jitter", []video.Info{a, {Width: 1920, Height: 1080, FrameRate: 30.001}}, Consistency{true, true}},
		{"size", []video.Info{a, {Width: 1280, Height: 720, FrameRate: 30}}, Consistency{false, true}},
		{"rate", []video.Info{a, {Width: 1920, Height: 1080, FrameRate: 25}}, Consistency{true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckConsistency(tt.infos)
			if got != tt.want {
				t.Errorf("CheckConsistency() = %+v, want %+v", got, tt.want)
			}
			if got.OK() != (tt.want.SameSize && tt.want.SameRate) {
				t.Error("OK() disagrees with fields")
			}
		})
	}
}
