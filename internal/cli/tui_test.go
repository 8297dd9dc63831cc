package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/splitviz/pkg/pipeline"
)

func update(t *testing.T, m ProgressModel, msg tea.Msg) (ProgressModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(ProgressModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm, cmd
}

func TestProgressModelTracksJobs(t *testing.T) {
	start := time.Unix(0, 0)
	m := NewProgressModel("Rendering", start)

	m, _ = update(t, m, progressMsg(pipeline.Progress{Job: "demo/Cube", Done: 3, Total: 10}))
	m, _ = update(t, m, progressMsg(pipeline.Progress{Job: "demo/Sphere", Done: 0, Total: 8}))
	m, _ = update(t, m, progressMsg(pipeline.Progress{Job: "demo/Cube", Done: 7, Total: 10}))

	if len(m.Jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(m.Jobs))
	}
	if m.Jobs[0].name != "demo/Cube" || m.Jobs[0].done != 7 {
		t.Errorf("first job = %+v, want demo/Cube at 7", m.Jobs[0])
	}

	view := m.View()
	for _, want := range []string{"Rendering", "demo/Cube", "7/10", "demo/Sphere", "0/8"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressModelTick(t *testing.T) {
	start := time.Unix(100, 0)
	m := NewProgressModel("Rendering", start)

	m, cmd := update(t, m, tickMsg(start.Add(1500*time.Millisecond)))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if !strings.Contains(m.View(), "1.5s") {
		t.Errorf("view should show elapsed time:\n%s", m.View())
	}
}

func TestProgressModelDone(t *testing.T) {
	m := NewProgressModel("Rendering", time.Now())
	boom := errors.New("boom")

	m, cmd := update(t, m, doneMsg{err: boom})
	if !m.Finished || m.Err != boom {
		t.Errorf("Finished=%v Err=%v", m.Finished, m.Err)
	}
	if cmd == nil {
		t.Error("done should quit the program")
	}
}

func TestProgressModelInterrupt(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := update(t, NewProgressModel("x", time.Now()), tt.key)
			if !m.Interrupted || cmd == nil {
				t.Errorf("Interrupted=%v cmd=%v", m.Interrupted, cmd)
			}
		})
	}

	m, cmd := update(t, NewProgressModel("x", time.Now()), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if m.Interrupted || cmd != nil {
		t.Error("other keys should be ignored")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		filled             int
	}{
		{0, 10, 10, 0},
		{5, 10, 10, 5},
		{10, 10, 10, 10},
		{20, 10, 10, 10},
		{3, 0, 10, 0},
	}
	for _, tt := range tests {
		bar := progressBar(tt.done, tt.total, tt.width)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("progressBar(%d, %d, %d) filled = %d, want %d", tt.done, tt.total, tt.width, got, tt.filled)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != tt.width {
			t.Errorf("progressBar width = %d, want %d", got, tt.width)
		}
	}
	if progressBar(1, 2, 0) != "" {
		t.Error("zero width should render nothing")
	}
}
