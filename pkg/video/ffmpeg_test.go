package video

import (
	"context"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func requireFFmpeg(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not on PATH", bin)
		}
	}
}

func encodeClip(t *testing.T, path string, frames int) {
	t.Helper()
	enc, err := NewEncoder(context.Background(), path, EncoderOptions{Width: 64, Height: 32, FrameRate: 10})
	if err != nil {
		t.Fatalf("NewEncoder() error: %v", err)
	}
	for i := 0; i < frames; i++ {
		if err := enc.WriteFrame(gradientFrame(64, 32, byte(i*20))); err != nil {
			enc.Abort()
			t.Fatalf("WriteFrame(%d) error: %v", i, err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

func TestFFmpegRoundTrip(t *testing.T) {
	requireFFmpeg(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	encodeClip(t, path, 6)

	info, err := Probe(ctx, path)
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if info.Width != 64 || info.Height != 32 {
		t.Errorf("size = %dx%d, want 64x32", info.Width, info.Height)
	}
	if math.Abs(info.FrameRate-10) > FrameRateEpsilon {
		t.Errorf("frame rate = %g, want 10", info.FrameRate)
	}

	seq, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if seq.Len() != 6 {
		t.Errorf("decoded %d frames, want 6", seq.Len())
	}
	if seq.Frame(0).Bounds().Dx() != 64 {
		t.Errorf("frame width = %d", seq.Frame(0).Bounds().Dx())
	}

	thumb := filepath.Join(t.TempDir(), "thumb.png")
	if err := ExtractFirstFrame(ctx, path, thumb, 32); err != nil {
		t.Fatalf("ExtractFirstFrame() error: %v", err)
	}
	img, err := imaging.Open(thumb)
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	if got := img.Bounds().Size(); got.X != 32 || got.Y != 16 {
		t.Errorf("thumbnail = %v, want 32x16", got)
	}
}

func TestEncoderAbortLeavesNoOutput(t *testing.T) {
	requireFFmpeg(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "aborted.mp4")

	enc, err := NewEncoder(context.Background(), path, EncoderOptions{Width: 64, Height: 32, FrameRate: 10})
	if err != nil {
		t.Fatalf("NewEncoder() error: %v", err)
	}
	if err := enc.WriteFrame(gradientFrame(64, 32, 0)); err != nil {
		t.Fatalf("WriteFrame() error: %v", err)
	}
	if err := enc.Abort(); err != nil {
		t.Fatalf("Abort() error: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("directory not empty after abort: %v", entries)
	}
	if err := enc.Close(); err != nil {
		t.Errorf("Close() after Abort should be a no-op, got %v", err)
	}
}

func TestProbeMissingFile(t *testing.T) {
	_, err := Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if err == nil {
		t.Fatal("Probe() of a missing file should fail")
	}
}
