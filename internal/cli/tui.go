package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/splitviz/pkg/pipeline"
)

var (
	tuiJobStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	tuiDoneStyle = lipgloss.NewStyle().Foreground(colorGreen)
	tuiDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	tuiBarWidth = 30
	tuiTick     = 100 * time.Millisecond
)

type (
	progressMsg pipeline.Progress
	doneMsg     struct{ err error }
	tickMsg     time.Time
)

// jobState is the last progress seen for one job.
type jobState struct {
	name        string
	done, total int
}

// ProgressModel is the bubbletea model showing frame progress per job.
type ProgressModel struct {
	Title       string
	Jobs        []jobState
	Start       time.Time
	Now         time.Time
	Finished    bool
	Interrupted bool
	Err         error
}

// NewProgressModel creates a progress model started at now.
func NewProgressModel(title string, now time.Time) ProgressModel {
	return ProgressModel{Title: title, Start: now, Now: now}
}

func (m ProgressModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tuiTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Interrupted = true
			return m, tea.Quit
		}
	case progressMsg:
		m.Jobs = upsertJob(m.Jobs, pipeline.Progress(msg))
	case doneMsg:
		m.Finished = true
		m.Err = msg.err
		return m, tea.Quit
	case tickMsg:
		m.Now = time.Time(msg)
		return m, tick()
	}
	return m, nil
}

func upsertJob(jobs []jobState, p pipeline.Progress) []jobState {
	for i := range jobs {
		if jobs[i].name == p.Job {
			jobs[i].done, jobs[i].total = p.Done, p.Total
			return jobs
		}
	}
	return append(jobs, jobState{name: p.Job, done: p.Done, total: p.Total})
}

func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString(tuiDimStyle.Render(fmt.Sprintf("  %s", m.Now.Sub(m.Start).Round(time.Second/10))))
	b.WriteString("\n\n")

	if len(m.Jobs) == 0 {
		b.WriteString(tuiDimStyle.Render("decoding..."))
		b.WriteString("\n")
	}

	width := 0
	for _, j := range m.Jobs {
		width = max(width, len(j.name))
	}
	for _, j := range m.Jobs {
		name := tuiJobStyle.Render(fmt.Sprintf("%-*s", width, j.name))
		count := fmt.Sprintf("%d/%d", j.done, j.total)
		if j.total > 0 && j.done >= j.total {
			count = tuiDoneStyle.Render(count + " " + iconSuccess)
		} else {
			count = tuiDimStyle.Render(count)
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", name, progressBar(j.done, j.total, tuiBarWidth), count)
	}

	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

// jobFunc runs one pipeline job.
type jobFunc func(ctx context.Context) (*pipeline.Result, error)

// runJob runs fn while reporting frame progress: the interactive view when
// --tui is set and stderr is a terminal, periodic log lines otherwise.
func (c *CLI) runJob(ctx context.Context, r *pipeline.Runner, title string, fn jobFunc) (*pipeline.Result, error) {
	if c.tui && isatty.IsTerminal(os.Stderr.Fd()) {
		return c.runWithTUI(ctx, r, title, fn)
	}
	r.OnProgress = logFrames(c.Logger)
	return fn(ctx)
}

func (c *CLI) runWithTUI(ctx context.Context, r *pipeline.Runner, title string, fn jobFunc) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewProgressModel(title, time.Now()),
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)
	r.OnProgress = func(pr pipeline.Progress) { p.Send(progressMsg(pr)) }

	// Log lines would tear the view.
	c.Logger.SetOutput(io.Discard)
	defer c.Logger.SetOutput(c.out)

	var (
		res    *pipeline.Result
		jobErr error
		done   = make(chan struct{})
	)
	go func() {
		defer close(done)
		res, jobErr = fn(ctx)
		p.Send(doneMsg{err: jobErr})
	}()

	final, runErr := p.Run()
	cancel()
	<-done

	if m, ok := final.(ProgressModel); ok && m.Interrupted {
		return nil, context.Canceled
	}
	if jobErr != nil {
		return nil, jobErr
	}
	if runErr != nil && res == nil {
		return nil, runErr
	}
	return res, nil
}
