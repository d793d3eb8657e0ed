package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/engine"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/source"
)

// countCommand creates the count command.
func (c *CLI) countCommand() *cobra.Command {
	var (
		opts        pipeline.Options
		top         int
		interactive bool
		asJSON      bool
		include     string
		exclude     string
	)

	cmd := &cobra.Command{
		Use:   "count [file]",
		Short: "Print the word frequency table of a text",
		Long: `Count tokenizes a text file (or stdin) the same way render does and prints
the most frequent words. With --interactive the table opens in a browser
where words can be marked for exclusion; the matching --exclude flag is
printed on exit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			opts.Include = splitList(include)
			opts.Exclude = splitList(exclude)
			return c.runCount(cmd, input, opts, top, interactive, asJSON)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&top, "top", "n", 25, "number of words to print (0 for all)")
	f.BoolVarP(&interactive, "interactive", "i", false, "browse the table interactively")
	f.BoolVar(&asJSON, "json", false, "print the table as a JSON object")
	f.BoolVar(&opts.AllowStopwords, "stopwords", false, "keep common English stop words")
	f.StringVar(&include, "include", "", "words always kept (comma-separated)")
	f.StringVar(&exclude, "exclude", "", "words always dropped (comma-separated)")
	f.IntVar(&opts.MinLength, "min-length", 0, "drop words shorter than this (default 2)")
	f.BoolVar(&opts.KeepNumbers, "numbers", false, "keep tokens made only of digits")

	return cmd
}

func (c *CLI) runCount(cmd *cobra.Command, input string, opts pipeline.Options, top int, interactive, asJSON bool) error {
	ctx := cmd.Context()
	out := printer{cmd.OutOrStdout()}

	store, err := newCache(false)
	if err != nil {
		return err
	}
	defer store.Close()

	data, err := readInput(ctx, input, cmd.InOrStdin(), source.NewClient(store, c.Logger), false)
	if err != nil {
		return err
	}
	opts.Text = string(data)
	if err := opts.ValidateForTokenize(); err != nil {
		return err
	}

	var spin *Spinner
	if !asJSON && !interactive {
		spin = newSpinner(ctx, os.Stderr, "Counting words...")
		spin.Start()
	}
	table, err := pipeline.Tokenize(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	c.Logger.Debug("counted words", "distinct", table.Len(), "total", table.Total())

	switch {
	case asJSON:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(table.Map())

	case interactive:
		final, err := tea.NewProgram(NewFrequencyModel(table.Entries(), table.Total()), tea.WithContext(ctx)).Run()
		if err != nil {
			return err
		}
		m := final.(FrequencyModel)
		if !m.Done || len(m.Excluded) == 0 {
			return nil
		}
		excludes := sortedExcludes(opts.Exclude, m.ExcludedWords())
		out.info("Render with: --exclude %s", strings.Join(excludes, ","))
		return nil
	}

	if table.Len() == 0 {
		out.warning("No words left after filtering")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), frequencyTable(table.Top(top), table.Total()))
	out.detail("%d distinct words, %d total", table.Len(), table.Total())
	if table.Len() > engine.DefaultMaxWords {
		out.detail("render keeps the top %d by default (--max-words)", engine.DefaultMaxWords)
	}
	return nil
}
