package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/splitviz/pkg/pipeline"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Probed 3 files (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logFrames returns a pipeline progress callback that logs every tenth of
// each job. Calls must come from one goroutine.
func logFrames(l *log.Logger) func(pipeline.Progress) {
	last := make(map[string]int)
	return func(p pipeline.Progress) {
		if p.Total <= 0 {
			return
		}
		step := p.Done * 10 / p.Total
		if prev, ok := last[p.Job]; ok && step <= prev {
			return
		}
		last[p.Job] = step
		l.Info("rendering", "job", p.Job, "frames", fmt.Sprintf("%d/%d", p.Done, p.Total))
	}
}
