package pipeline

import (
	"context"
	"math"

	"github.com/matzehuels/splitviz/pkg/video"
)

// Consistency summarizes whether probed inputs agree.
type Consistency struct {
	SameSize bool `json:"same_size"`
	SameRate bool `json:"same_rate"`
}

// OK reports whether all inputs share size and frame rate.
func (c Consistency) OK() bool { return c.SameSize && c.SameRate }

// Probe reads metadata of every path in order. The first failure stops
// the scan.
func (r *Runner) Probe(ctx context.Context, paths []string) ([]video.Info, error) {
	infos := make([]video.Info, 0, len(paths))
	for _, p := range paths {
		info, err := r.Source.Probe(ctx, p)
		if err != nil {
			return infos, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// CheckConsistency compares sizes and frame rates. Rates within
// video.FrameRateEpsilon are equal.
func CheckConsistency(infos []video.Info) Consistency {
	c := Consistency{SameSize: true, SameRate: true}
	for _, in := range infos[min(1, len(infos)):] {
		if in.Width != infos[0].Width || in.Height != infos[0].Height {
			c.SameSize = false
		}
		if math.Abs(in.FrameRate-infos[0].FrameRate) > video.FrameRateEpsilon {
			c.SameRate = false
		}
	}
	return c
}
