package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/splitviz/pkg/errors"
)

// EncoderOptions configures the output stream.
type EncoderOptions struct {
	Width     int
	Height    int
	FrameRate float64
	Codec     string // default libx264
	Bitrate   string // e.g. "8M"; empty selects constant quality
	CRF       int    // used when Bitrate is empty; default 18
	Preset    string // encoder preset, optional
}

func (o *EncoderOptions) setDefaults() {
	if o.Codec == "" {
		o.Codec = "libx264"
	}
	if o.Bitrate == "" && o.CRF == 0 {
		o.CRF = 18
	}
}

func (o EncoderOptions) validate() error {
	if o.Width < 1 || o.Height < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid output size %dx%d", o.Width, o.Height)
	}
	if o.FrameRate <= FrameRateEpsilon {
		return errors.New(errors.ErrCodeFrameRateIndeterminate, "output frame rate %.3g", o.FrameRate)
	}
	return nil
}

// encoderArgs builds the ffmpeg command line reading rgb24 from stdin.
func encoderArgs(o EncoderOptions, out string) []string {
	args := []string{
		"-y", "-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", o.Width, o.Height),
		"-r", fmt.Sprintf("%.6g", o.FrameRate),
		"-i", "pipe:0",
		"-an",
		"-c:v", o.Codec,
	}
	if o.Bitrate != "" {
		args = append(args, "-b:v", o.Bitrate)
	} else {
		args = append(args, "-crf", fmt.Sprint(o.CRF))
	}
	if o.Preset != "" {
		args = append(args, "-preset", o.Preset)
	}
	// yuv420p needs even dimensions.
	if o.Width%2 != 0 || o.Height%2 != 0 {
		args = append(args, "-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2")
	}
	args = append(args, "-pix_fmt", "yuv420p", "-movflags", "+faststart", out)
	return args
}

// partialPath returns a hidden sibling of path that keeps its extension so
// ffmpeg still picks the right container.
func partialPath(path string) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.partial%s", stem, uuid.NewString()[:8], ext))
}

// Encoder streams frames into an ffmpeg process.
// Frames must be written in order and match the configured size.
type Encoder struct {
	opts    EncoderOptions
	path    string
	partial string
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  bytes.Buffer
	buf     []byte
	frames  int
	done    bool
}

// NewEncoder starts ffmpeg writing to a partial file next to path.
func NewEncoder(ctx context.Context, path string, opts EncoderOptions) (*Encoder, error) {
	opts.setDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	bin := ffmpeg()
	if err := lookPath(bin); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoderFailed, err, "encode %s", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	e := &Encoder{opts: opts, path: path, partial: partialPath(path)}
	e.cmd = exec.CommandContext(ctx, bin, encoderArgs(opts, e.partial)...)
	e.cmd.Stderr = &e.stderr
	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", path)
	}
	e.stdin = stdin
	if err := e.cmd.Start(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoderFailed, err, "start encoder for %s", path)
	}
	return e, nil
}

// Size returns the frame size the encoder expects.
func (e *Encoder) Size() image.Point { return image.Pt(e.opts.Width, e.opts.Height) }

// WriteFrame sends one frame to the encoder.
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	if e.done {
		return errors.New(errors.ErrCodeInternal, "write to finished encoder")
	}
	if got := img.Bounds().Size(); got != e.Size() {
		return errors.New(errors.ErrCodeDimensionMismatch,
			"frame %d is %dx%d, encoder expects %dx%d", e.frames, got.X, got.Y, e.opts.Width, e.opts.Height)
	}
	var err error
	if e.buf, err = writeFrame(e.stdin, img, e.buf); err != nil {
		return errors.Wrap(errors.ErrCodeEncoderFailed, e.withStderr(err), "write frame %d", e.frames)
	}
	e.frames++
	return nil
}

// Close finishes the stream and moves the partial file into place.
func (e *Encoder) Close() error {
	if e.done {
		return nil
	}
	e.done = true
	closeErr := e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		_ = os.Remove(e.partial)
		return errors.Wrap(errors.ErrCodeEncoderFailed, e.withStderr(err), "finish %s", e.path)
	}
	if closeErr != nil {
		_ = os.Remove(e.partial)
		return errors.Wrap(errors.ErrCodeEncoderFailed, closeErr, "finish %s", e.path)
	}
	return os.Rename(e.partial, e.path)
}

// Abort stops the encoder and discards the partial output. It is a no-op
// after Close.
func (e *Encoder) Abort() error {
	if e.done {
		return nil
	}
	e.done = true
	_ = e.stdin.Close()
	if e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
	}
	_ = e.cmd.Wait()
	if err := os.Remove(e.partial); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (e *Encoder) withStderr(err error) error {
	if msg := strings.TrimSpace(e.stderr.String()); msg != "" {
		return fmt.Errorf("%v: %s", err, msg)
	}
	return err
}
