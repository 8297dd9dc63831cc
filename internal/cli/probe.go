package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/splitviz/pkg/cache"
	"github.com/matzehuels/splitviz/pkg/pipeline"
	"github.com/matzehuels/splitviz/pkg/video"
)

// probeReport is the --json output of the probe command.
type probeReport struct {
	Files       []video.Info          `json:"files"`
	Consistency *pipeline.Consistency `json:"consistency,omitempty"`
}

func (c *CLI) probeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "probe FILE...",
		Short: "Print stream metadata and check that inputs agree",
		Long: `Print size, frame rate and frame count of each video. With several files,
also report whether they share size and frame rate, which a demo needs to
avoid resampling.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger)
			defer r.Close()

			prog := newProgress(c.Logger)
			infos, err := r.Probe(cmd.Context(), args)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Probed %d files", len(infos)))

			report := probeReport{Files: infos}
			if len(infos) > 1 {
				cons := pipeline.CheckConsistency(infos)
				report.Consistency = &cons
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Fprintln(cmd.OutOrStdout(), probeTable(infos))
			if cons := report.Consistency; cons != nil {
				switch {
				case cons.OK():
					printSuccess("All inputs share size and frame rate")
				case !cons.SameSize:
					printWarning("Inputs differ in size; later scenes will be resampled")
				}
				if !cons.SameRate {
					printWarning("Inputs differ in frame rate; the first input's rate is used")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	completeFiles(cmd, videoExts, nil)
	return cmd
}
