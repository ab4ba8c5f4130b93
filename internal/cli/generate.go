package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordmosaic/internal/config"
	"github.com/matzehuels/wordmosaic/pkg/extract"
	"github.com/matzehuels/wordmosaic/pkg/layout"
	"github.com/matzehuels/wordmosaic/pkg/pipeline"
	"github.com/matzehuels/wordmosaic/pkg/render/sink"
)

// generateOpts holds the non-cloud flags of the generate command.
type generateOpts struct {
	output    string // base path for output files
	table     bool   // also write <base>.csv
	noCache   bool
	noHistory bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags cloudFlags
		gen   generateOpts
	)

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Render a word cloud from a document",
		Long: `Render a word cloud from a text, Markdown, PDF or DOCX document.

Words are counted after removing stopwords, sized by frequency and packed
around the canvas center. Output files are written next to the input as
<name>.<format> unless --output names another base path.

Defaults come from the [cloud] section of the config file; flags override
them. Results are cached, and the frequency table is saved to the history
store.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.PipelineOptions()
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cfg, args[0], opts, gen)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&gen.output, "output", "o", "", "base path for output files (default: input path without extension)")
	cmd.Flags().BoolVar(&gen.table, "table", false, "also write the frequency table as CSV")
	cmd.Flags().BoolVar(&gen.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&gen.noHistory, "no-history", false, "do not save the frequency table")

	return cmd
}

// runGenerate extracts the text of input, runs the pipeline and writes the
// artifacts.
func (c *CLI) runGenerate(ctx context.Context, cfg *config.Config, input string, opts pipeline.Options, gen generateOpts) error {
	prog := newProgress(c.Logger)
	text, err := extract.File(ctx, input)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Read %s", filepath.Base(input)))
	opts.Source = filepath.Base(input)

	runner, err := c.newRunner(ctx, cfg, runnerOpts{noCache: gen.noCache, noHistory: gen.noHistory})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Generating word cloud...")
	spinner.Start()
	result, err := runner.Execute(ctx, text, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if result.Analysis.Empty {
		printWarning("No words left after stopword filtering; the cloud is empty")
	}
	base := basePath(gen.output, input)
	paths, err := writeArtifacts(base, result.Artifacts, opts.Formats)
	if err != nil {
		return err
	}
	if gen.table {
		path := base + ".csv"
		if err := writeTable(path, result); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	printSuccess("Generated word cloud for %s", filepath.Base(input))
	printStats(result.Stats.Placed, result.Stats.Unplaced, result.Stats.Distinct, result.CacheInfo.LayoutHit)
	for _, p := range paths {
		printFile(p)
	}
	reportUnplaced(result)
	if result.ID != "" {
		printDetail("Saved table %s", result.ID)
	}
	return nil
}

// reportUnplaced warns about words that were dropped for lack of space.
// Words beyond the word cap are expected and only logged.
func reportUnplaced(result *pipeline.Result) {
	var noSpace []string
	for _, u := range result.Layout.Unplaced {
		if u.Reason == layout.ReasonNoSpace {
			noSpace = append(noSpace, u.Word)
		}
	}
	if len(noSpace) == 0 {
		return
	}
	const show = 8
	list := noSpace
	if len(list) > show {
		list = list[:show]
	}
	msg := strings.Join(list, ", ")
	if len(noSpace) > show {
		msg += fmt.Sprintf(" and %d more", len(noSpace)-show)
	}
	printWarning("%d words did not fit: %s", len(noSpace), msg)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if sink.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil || ext == ".csv" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes one <base>.<format> file per format and returns the
// paths in format order.
func writeArtifacts(base string, artifacts map[string][]byte, formats []string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	var paths []string
	seen := make(map[string]bool, len(formats))
	for _, format := range formats {
		if seen[format] {
			continue
		}
		seen[format] = true
		data, ok := artifacts[format]
		if !ok {
			return nil, fmt.Errorf("no %s output was rendered", format)
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeTable(path string, result *pipeline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := sink.WriteCSV(f, result.Analysis.Table); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
