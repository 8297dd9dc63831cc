package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/splitviz/pkg/errors"
	"github.com/matzehuels/splitviz/pkg/observability"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out, "version: ") || !strings.Contains(out, "go: go") {
		t.Errorf("version output = %q", out)
	}
}

func TestCachePathCommand(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(xdg, appName); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	badConfig := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(badConfig, []byte("[highlight]\npanes = \"five\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.mp4")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"single pane", []string{"highlight", missing, "--panes", "1"}, errors.ErrCodeInvalidConfig},
		{"bad feature flag", []string{"highlight", missing, "--feature", "Material"}, errors.ErrCodeInvalidConfig},
		{"feature outside panes", []string{"highlight", missing, "--feature", "7:Extra"}, errors.ErrCodeInvalidConfig},
		{"bad config", []string{"--config", badConfig, "version"}, errors.ErrCodeInvalidConfig},
		{"demo without scenes", []string{"demo"}, errors.ErrCodeInvalidConfig},
		{"fade too long", []string{"title", missing, "--duration", "1", "--fade", "0.8"}, errors.ErrCodeInvalidConfig},
		{"bad stops", []string{"title", missing, "--stops", "#zzzzzz,#000000"}, errors.ErrCodeInvalidConfig},
		{"missing highlight input", []string{"highlight", missing, "--no-cache"}, errors.ErrCodeSourceUnavailable},
		{"missing probe input", []string{"probe", missing}, errors.ErrCodeSourceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCommandArgs(t *testing.T) {
	for _, args := range [][]string{
		{"highlight"},
		{"title", "a.mp4", "b.mp4"},
		{"probe"},
		{"frame"},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected argument error", args)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s error: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("completion %s output does not mention %s", shell, appName)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestVerboseRaisesLogLevel(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"cache", "path"}, false},
		{[]string{"-v", "cache", "path"}, true},
		{[]string{"cache", "path", "--verbose"}, true},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			var logs, out bytes.Buffer
			c := New(&logs, LogInfo)
			root := c.RootCommand()
			root.SetOut(&out)
			root.SetErr(&logs)
			root.SetArgs(tt.args)
			if err := root.Execute(); err != nil {
				t.Fatalf("execute error: %v", err)
			}
			if got := c.Logger.GetLevel() == LogDebug; got != tt.want {
				t.Errorf("debug level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFontFlagUsage(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	tests := []struct {
		cmd      string
		contains []string
	}{
		{"highlight", []string{"Go Medium", ".ttf"}},
		{"demo", []string{"Go Medium", ".ttc"}},
		{"title", []string{"Go Bold", ".otf", ".otc"}},
	}
	for _, tt := range tests {
		cmd, _, err := root.Find([]string{tt.cmd})
		if err != nil {
			t.Fatalf("find %s: %v", tt.cmd, err)
		}
		f := cmd.Flags().Lookup("font")
		if f == nil {
			t.Fatalf("%s has no --font flag", tt.cmd)
		}
		for _, want := range tt.contains {
			if !strings.Contains(f.Usage, want) {
				t.Errorf("%s --font usage %q does not mention %q", tt.cmd, f.Usage, want)
			}
		}
	}
}
