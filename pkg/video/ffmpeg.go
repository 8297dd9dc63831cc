package video

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

var (
	binMu       sync.RWMutex
	ffmpegPath  = "ffmpeg"
	ffprobePath = "ffprobe"
)

// SetFFmpeg overrides the ffmpeg binary. Empty keeps the current value.
func SetFFmpeg(path string) {
	if path == "" {
		return
	}
	binMu.Lock()
	ffmpegPath = path
	binMu.Unlock()
}

// SetFFprobe overrides the ffprobe binary. Empty keeps the current value.
func SetFFprobe(path string) {
	if path == "" {
		return
	}
	binMu.Lock()
	ffprobePath = path
	binMu.Unlock()
}

func ffmpeg() string {
	binMu.RLock()
	defer binMu.RUnlock()
	return ffmpegPath
}

func ffprobe() string {
	binMu.RLock()
	defer binMu.RUnlock()
	return ffprobePath
}

// lookPath fails with an install hint when bin is not on PATH.
func lookPath(bin string) error {
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("%s not found. Install with:\n  macOS:  brew install ffmpeg\n  Linux:  apt install ffmpeg", bin)
	}
	return nil
}

// run executes bin and returns stdout; stderr is folded into the error.
func run(ctx context.Context, bin string, args ...string) ([]byte, error) {
	if err := lookPath(bin); err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", bin, err, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
