package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordmosaic/internal/config"
	"github.com/matzehuels/wordmosaic/pkg/extract"
	"github.com/matzehuels/wordmosaic/pkg/text"
)

// stopwordsCommand creates the stopwords command.
func (c *CLI) stopwordsCommand() *cobra.Command {
	var (
		save bool
		list bool
	)

	cmd := &cobra.Command{
		Use:   "stopwords [file]",
		Short: "Choose extra stopwords from a document's most frequent words",
		Long: `Choose extra stopwords from a document's most frequent words.

The 50 most frequent words of the unfiltered text are listed alphabetically
in an interactive picker. The chosen words are printed one per line; with
--save they are also added to the [stopwords] section of the config file so
later runs filter them.

Use --list to print the candidates without the picker.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStopwords(cmd, args[0], save, list)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "add the chosen words to the config file")
	cmd.Flags().BoolVar(&list, "list", false, "print the candidates instead of opening the picker")

	return cmd
}

func (c *CLI) runStopwords(cmd *cobra.Command, input string, save, list bool) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	candidates, err := c.candidates(ctx, cfg, input)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(candidates) == 0 {
		printWarning("No words found in %s", input)
		return nil
	}
	if list {
		for _, w := range candidates {
			fmt.Fprintln(out, w)
		}
		return nil
	}
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return fmt.Errorf("stopwords needs an interactive terminal; use --list to print the candidates")
	}

	sw := text.NewStopwords(!cfg.Stopwords.NoDefault, cfg.Stopwords.Extra...)
	filtered := make(map[string]bool)
	for _, w := range candidates {
		if sw.Contains(w) {
			filtered[w] = true
		}
	}

	final, err := tea.NewProgram(NewStopwordPicker(candidates, filtered), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("stopword picker: %w", err)
	}
	chosen := final.(StopwordPicker).Selected()
	if len(chosen) == 0 {
		printInfo("No stopwords selected")
		return nil
	}
	for _, w := range chosen {
		fmt.Fprintln(out, w)
	}

	if !save {
		printNextStep("Keep them", fmt.Sprintf("%s generate %s -s %s", appName, input, strings.Join(chosen, ",")))
		return nil
	}
	added := cfg.AddStopwords(chosen...)
	if err := cfg.Save(c.cfgPath); err != nil {
		return err
	}
	printSuccess("Added %d stopwords to %s", added, c.cfgPath)
	return nil
}

// candidates extracts input and returns its stopword candidates.
func (c *CLI) candidates(ctx context.Context, cfg *config.Config, input string) ([]string, error) {
	doc, err := extract.File(ctx, input)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, cfg, runnerOpts{noHistory: true})
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	analysis, err := runner.Analyze(ctx, doc, cfg.PipelineOptions())
	if err != nil {
		return nil, err
	}
	return analysis.Candidates, nil
}
