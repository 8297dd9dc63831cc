// Package cli implements the splitviz command-line interface.
//
// Commands:
//   - highlight: render a pane-split highlight video from one multi-pane clip
//   - demo: render several scenes back to back into one video
//   - title: overlay the animated gradient title on a video
//   - probe: print stream metadata and check inputs agree
//   - frame: extract the first frame as an image or thumbnail
//   - cache: manage the render cache
//
// Configuration is read from splitviz.toml (or --config) and overridden by
// SPLITVIZ_FFMPEG / SPLITVIZ_FFPROBE and command flags.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/splitviz/pkg/buildinfo"
	"github.com/matzehuels/splitviz/pkg/cache"
	"github.com/matzehuels/splitviz/pkg/config"
	"github.com/matzehuels/splitviz/pkg/observability"
	"github.com/matzehuels/splitviz/pkg/pipeline"
	"github.com/matzehuels/splitviz/pkg/video"
)

// appName is used for the cache directory and display.
const appName = "splitviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    io.Writer

	configPath string
	cfg        config.Config
	verbose    bool
	noCache    bool
	tui        bool
	workers    int
	ffmpeg     string
	ffprobe    string
}

// New creates a CLI logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    w,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "splitviz renders pane-split highlight videos and animated titles",
		Long: `splitviz turns wide multi-pane renders into comparison videos: the left
half of each frame shows the baseline pane, the right half cycles through
feature panes with burned-in labels. It also overlays an animated gradient
title on any video.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.setup() },
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVarP(&c.configPath, "config", "c", "", "config file (default ./"+config.FileName+" if present)")
	pf.BoolVar(&c.noCache, "no-cache", false, "always render, ignoring the render cache")
	pf.BoolVar(&c.tui, "tui", false, "show an interactive progress view")
	pf.IntVarP(&c.workers, "workers", "j", 0, "frames rendered in parallel (default from config)")
	pf.StringVar(&c.ffmpeg, "ffmpeg", "", "ffmpeg binary (overrides $"+config.EnvFFmpeg+")")
	pf.StringVar(&c.ffprobe, "ffprobe", "", "ffprobe binary (overrides $"+config.EnvFFprobe+")")
	_ = root.RegisterFlagCompletionFunc("config", completeExts(tomlExts))

	root.AddCommand(c.highlightCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.titleCommand())
	root.AddCommand(c.probeCommand())
	root.AddCommand(c.frameCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and registers hooks before any command runs.
// The level is raised first so config loading already logs at debug.
func (c *CLI) setup() error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.Getenv)
	if c.ffmpeg != "" {
		cfg.Tools.FFmpeg = c.ffmpeg
	}
	if c.ffprobe != "" {
		cfg.Tools.FFprobe = c.ffprobe
	}
	if c.workers > 0 {
		cfg.Output.Workers = c.workers
	}
	c.cfg = cfg

	video.SetFFmpeg(cfg.Tools.FFmpeg)
	video.SetFFprobe(cfg.Tools.FFprobe)

	if c.Logger.GetLevel() <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
	return nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	ch, err := newCache(c.noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.Workers = c.cfg.Output.Workers
	return r, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/splitviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// encoding converts the output config for the pipeline.
func encoding(o config.Output) pipeline.Encoding {
	return pipeline.Encoding{
		FPS:         o.FPS,
		FallbackFPS: o.FallbackFPS,
		Codec:       o.Codec,
		Bitrate:     o.Bitrate,
		CRF:         o.CRF,
		Preset:      o.Preset,
	}
}

// panes converts the highlight config for the pipeline.
func panes(h config.Highlight) pipeline.Panes {
	return pipeline.Panes{
		Count:           h.Panes,
		BaselinePane:    h.BaselinePane,
		BaselineLabel:   h.BaselineLabel,
		Features:        h.ScheduleFeatures(),
		CrossfadeFrames: h.CrossfadeFrames,
		FontPath:        h.Font,
	}
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
