package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/splitviz/pkg/pipeline"
	"github.com/matzehuels/splitviz/pkg/video"
)

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
	colorPink   = lipgloss.Color("205") // progress bar
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleBarDone  = lipgloss.NewStyle().Foreground(colorPink)
	styleBarTodo  = lipgloss.NewStyle().Foreground(colorDim)
	styleTableHdr = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printResult prints the output path and a one-line summary of a job.
func printResult(verb string, res *pipeline.Result) {
	printSuccess("%s %s", verb, res.Output)
	fmt.Println(resultLine(res))
	for _, s := range res.Scenes {
		line := fmt.Sprintf("%s: %d frames, segment %d", s.Label, s.Frames, s.SegmentLength)
		if s.Resampled > 0 {
			line += fmt.Sprintf(", %d resampled", s.Resampled)
		}
		printDetail("%s", line)
	}
	if res.Resampled > 0 {
		printWarning("%d frames were resampled to %dx%d", res.Resampled, res.Size.X, res.Size.Y)
	}
}

// resultLine joins job facts with dim separators.
func resultLine(res *pipeline.Result) string {
	parts := []string{fmt.Sprintf("%d frames", res.Frames)}
	if res.Size.X > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", res.Size.X, res.Size.Y))
	}
	if res.FrameRate > 0 {
		parts = append(parts, fmt.Sprintf("%.4g fps", res.FrameRate))
	}
	parts = append(parts, res.Elapsed.Round(time.Millisecond).String())

	status := styleComputed.Render(iconFresh)
	if res.Cached {
		status = styleCached.Render(iconCached)
	}

	line := "  "
	for i, p := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(p)
	}
	return line + StyleDim.Render(" · ") + status
}

// probeTable renders stream metadata as a bordered table.
func probeTable(infos []video.Info) string {
	rows := make([][]string, len(infos))
	for i, in := range infos {
		fps, dur := "unknown", "unknown"
		if in.FrameRate > video.FrameRateEpsilon {
			fps = fmt.Sprintf("%.4g", in.FrameRate)
			dur = fmt.Sprintf("%.2fs", in.Duration())
		}
		frames := "?"
		if in.FrameCount > 0 {
			frames = fmt.Sprint(in.FrameCount)
		}
		rows[i] = []string{in.Path, fmt.Sprintf("%dx%d", in.Width, in.Height), fps, frames, dur}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("File", "Size", "FPS", "Frames", "Duration").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHdr
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
	return t.Render()
}

// progressBar draws a width-cell bar for done/total.
func progressBar(done, total, width int) string {
	if width < 1 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = min(width, done*width/total)
	}
	return styleBarDone.Render(strings.Repeat("█", filled)) +
		styleBarTodo.Render(strings.Repeat("░", width-filled))
}
