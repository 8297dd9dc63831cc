package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strings"

	"github.com/matzehuels/splitviz/pkg/errors"
)

// Open probes and eagerly decodes every frame of path.
// Any failure is reported as SOURCE_UNAVAILABLE.
func Open(ctx context.Context, path string) (*Sequence, error) {
	info, err := Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	frames, err := decode(ctx, path, info.Width, info.Height, 0)
	if err != nil {
		return nil, err
	}
	return &Sequence{
		Frames:    frames,
		Width:     info.Width,
		Height:    info.Height,
		FrameRate: info.FrameRate,
	}, nil
}

// decode streams rgb24 frames out of ffmpeg. limit <= 0 decodes all frames.
func decode(ctx context.Context, path string, w, h, limit int) ([]*image.RGBA, error) {
	bin := ffmpeg()
	if err := lookPath(bin); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "decode %s", path)
	}

	args := []string{"-v", "error", "-noautorotate", "-i", path, "-an"}
	if limit > 0 {
		args = append(args, "-frames:v", fmt.Sprint(limit))
	}
	args = append(args, "-f", "rawvideo", "-pix_fmt", "rgb24", "pipe:1")

	cmd := exec.CommandContext(ctx, bin, args...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode %s", path)
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "decode %s", path)
	}

	frames, readErr := readFrames(stdout, w, h, limit)
	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if readErr != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, readErr, "decode %s", path)
	}
	if waitErr != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable,
			fmt.Errorf("%v: %s", waitErr, strings.TrimSpace(errBuf.String())), "decode %s", path)
	}
	if len(frames) == 0 {
		return nil, errors.New(errors.ErrCodeSourceUnavailable, "%s contains no decodable frames", path)
	}
	return frames, nil
}
