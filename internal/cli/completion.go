package cli

import (
	"github.com/spf13/cobra"
)

// Extensions offered by shell completion.
var (
	videoExts = []string{"mp4", "mov", "mkv", "webm", "avi"}
	imageExts = []string{"png", "jpg", "jpeg", "gif", "tif", "bmp"}
	fontExts  = []string{"ttf", "otf", "ttc", "otc"}
	tomlExts  = []string{"toml"}
)

func completeExts(exts []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completeFiles registers file-extension completion for a command's
// arguments and its output and font flags where present.
func completeFiles(cmd *cobra.Command, args, output []string) {
	cmd.ValidArgsFunction = completeExts(args)
	if cmd.Flags().Lookup("output") != nil {
		_ = cmd.RegisterFlagCompletionFunc("output", completeExts(output))
	}
	if cmd.Flags().Lookup("font") != nil {
		_ = cmd.RegisterFlagCompletionFunc("font", completeExts(fontExts))
	}
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for splitviz.

  $ source <(splitviz completion bash)
  $ splitviz completion zsh > "${fpath[1]}/_splitviz"
  $ splitviz completion fish > ~/.config/fish/completions/splitviz.fish
  PS> splitviz completion powershell | Out-String | Invoke-Expression

Video arguments complete to video files, --font to TrueType/OpenType files
and --config to TOML files.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
