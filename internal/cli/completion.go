package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordmosaic/pkg/extract"
	"github.com/matzehuels/wordmosaic/pkg/palette"
	"github.com/matzehuels/wordmosaic/pkg/render/sink"
	"github.com/matzehuels/wordmosaic/pkg/scale"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for wordmosaic.

Besides commands and flags, the scripts complete document paths
(txt, md, csv, pdf, docx), palette names for --palette, --scaling modes
and comma-separated --format lists:

  $ wordmosaic generate report.<TAB>        report.pdf  report.docx
  $ wordmosaic generate report.pdf -p <TAB> Blues  cividis  inferno ...
  $ wordmosaic generate report.pdf -f svg,<TAB>

Bash:
  $ source <(wordmosaic completion bash)
  $ wordmosaic completion bash > /etc/bash_completion.d/wordmosaic

Zsh (with compinit enabled):
  $ wordmosaic completion zsh > "${fpath[1]}/_wordmosaic"

Fish:
  $ wordmosaic completion fish > ~/.config/fish/completions/wordmosaic.fish

PowerShell:
  PS> wordmosaic completion powershell | Out-String | Invoke-Expression
`,
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

	return cmd
}

// completeDocument completes the single document argument of generate,
// count and stopwords.
func completeDocument(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	exts := make([]string, 0, len(extract.Extensions()))
	for _, ext := range extract.Extensions() {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	return exts, cobra.ShellCompDirectiveFilterFileExt
}

func completeFixed(values []string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeFormats completes the last element of a comma-separated format
// list, skipping formats already given.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	used := make(map[string]bool)
	for _, f := range strings.Split(prefix, ",") {
		used[strings.TrimSpace(f)] = true
	}
	var out []string
	for _, f := range sink.Formats {
		if !used[f] && strings.HasPrefix(f, last) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// registerCloudCompletions attaches value completions to the cloud flags.
func registerCloudCompletions(cmd *cobra.Command) {
	scalings := make([]string, len(scale.Scalings))
	for i, s := range scale.Scalings {
		scalings[i] = string(s)
	}
	_ = cmd.RegisterFlagCompletionFunc("palette", completeFixed(palette.Names()))
	_ = cmd.RegisterFlagCompletionFunc("scaling", completeFixed(scalings))
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
}
