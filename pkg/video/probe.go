package video

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/splitviz/pkg/errors"
)

// Info is the stream metadata of a video file.
type Info struct {
	Path       string  `json:"path"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FrameRate  float64 `json:"frame_rate"`  // 0 when indeterminate
	FrameCount int     `json:"frame_count"` // 0 when the container does not say
}

// Duration returns FrameCount / FrameRate, or 0 when the rate is
// indeterminate.
func (i Info) Duration() float64 {
	if i.FrameRate <= FrameRateEpsilon {
		return 0
	}
	return float64(i.FrameCount) / i.FrameRate
}

// FrameRateOr is [Sequence.FrameRateOr] for probed metadata.
func (i Info) FrameRateOr(fallback float64) (float64, error) {
	return resolveRate(i.FrameRate, fallback)
}

// Probe reads stream metadata of the first video stream in path.
func Probe(ctx context.Context, path string) (Info, error) {
	if _, err := os.Stat(path); err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "open %s", path)
	}
	out, err := run(ctx, ffprobe(),
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,avg_frame_rate,nb_frames",
		"-of", "json",
		path,
	)
	if err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "probe %s", path)
	}
	info, err := parseProbe(out)
	if err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "probe %s", path)
	}
	info.Path = path
	return info, nil
}

type probeOutput struct {
	Streams []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
	} `json:"streams"`
}

func parseProbe(data []byte) (Info, error) {
	var p probeOutput
	if err := json.Unmarshal(data, &p); err != nil {
		return Info{}, err
	}
	if len(p.Streams) == 0 {
		return Info{}, errors.New(errors.ErrCodeSourceUnavailable, "no video stream")
	}
	s := p.Streams[0]
	if s.Width <= 0 || s.Height <= 0 {
		return Info{}, errors.New(errors.ErrCodeSourceUnavailable, "invalid dimensions %dx%d", s.Width, s.Height)
	}
	rate := parseRate(s.AvgFrameRate)
	if rate <= FrameRateEpsilon {
		rate = parseRate(s.RFrameRate)
	}
	n, _ := strconv.Atoi(s.NbFrames)
	return Info{Width: s.Width, Height: s.Height, FrameRate: rate, FrameCount: n}, nil
}

// parseRate parses ffprobe rationals ("30000/1001") and plain numbers.
// Unparseable or indeterminate rates yield 0.
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if ok {
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0
		}
		n /= d
	}
	if n <= FrameRateEpsilon {
		return 0
	}
	return n
}
