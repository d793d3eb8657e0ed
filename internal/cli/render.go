package cli

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/wordcloud/pkg/engine"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/palette"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/placement"
	"github.com/matzehuels/wordcloud/pkg/source"
)

// renderFlags holds the flags that are not bound directly to
// pipeline.Options, either because they need parsing or because they are
// comma-separated lists.
type renderFlags struct {
	config      string
	output      string
	formats     string
	frequencies bool
	include     string
	exclude     string
	rotation    string
	bubble      string
	focusAngle  float64
	noCache     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts pipeline.Options
		rf   renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a text or frequency table as a word cloud",
		Long: `Render counts the words of a text file (or stdin) and writes the cloud in
one or more formats. With --frequencies the input is a table of word weights
instead: a JSON object or one "word weight" pair per line.

A TOML profile (--config) sets any option; flags given on the command line
override it.`,
		Example: `  wordcloud render speech.txt
  wordcloud render speech.txt -f svg,png --preset hd --palette ocean
  wordcloud render --frequencies weights.tsv --bubble circle -o cloud.svg
  cat notes.md | wordcloud render - -o - > cloud.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if err := rf.apply(cmd.Flags(), &opts); err != nil {
				return err
			}
			return c.runRender(cmd, input, &opts, &rf)
		},
	}

	rf.bind(cmd.Flags(), &opts)
	return cmd
}

// bind registers the render flags on f. Most write straight into opts; the
// rest land in rf and are parsed by apply.
func (rf *renderFlags) bind(f *pflag.FlagSet, opts *pipeline.Options) {
	f.StringVar(&rf.config, "config", "", "TOML render profile")
	f.StringVarP(&rf.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	f.StringVarP(&rf.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	f.BoolVar(&rf.frequencies, "frequencies", false, "input is a word weight table instead of text")
	f.BoolVar(&rf.noCache, "no-cache", false, "disable the render cache")
	f.BoolVar(&opts.Refresh, "refresh", false, "ignore cached results and recompute")

	// Canvas
	f.IntVar(&opts.Width, "width", 0, fmt.Sprintf("canvas width (default %d)", engine.DefaultWidth))
	f.IntVar(&opts.Height, "height", 0, fmt.Sprintf("canvas height (default %d)", engine.DefaultHeight))
	f.StringVar(&opts.Preset, "preset", "", "canvas size preset: hd, fullhd, 4k, a4, square, banner")
	f.BoolVar(&opts.AllowOverflow, "overflow", false, "let words bleed past the canvas edge")

	// Look
	f.StringVar(&opts.Font, "font", "", "typeface: "+strings.Join(fonts.Names(), ", "))
	f.StringVar(&opts.Background, "background", "", `background color, or "transparent" (default white)`)
	f.StringVar(&opts.Palette, "palette", "", "palette name ("+strings.Join(palette.Names(), ", ")+") or comma-separated colors")
	f.IntVar(&opts.MaxColors, "max-colors", 0, "use at most this many palette colors")
	f.BoolVar(&opts.Monochrome, "monochrome", false, "draw every word in one color")
	f.Float64Var(&opts.StrokeWidth, "stroke-width", 0, "outline width around each word")
	f.StringVar(&opts.StrokeColor, "stroke-color", "", "outline color (default black)")
	f.StringVar(&rf.bubble, "bubble", "", "shape behind each word: none, rectangle, square, circle, oval")

	// Words
	f.IntVar(&opts.MaxWords, "max-words", 0, "keep only the most frequent words (default 100)")
	f.StringVar(&opts.FocusWord, "focus", "", "word to emphasize; always kept and enlarged")
	f.Float64Var(&rf.focusAngle, "focus-angle", 0, "fixed rotation of the focus word, in degrees")
	f.BoolVar(&opts.AllowStopwords, "stopwords", false, "keep common English stop words")
	f.StringVar(&rf.include, "include", "", "words always kept (comma-separated)")
	f.StringVar(&rf.exclude, "exclude", "", "words always dropped (comma-separated)")
	f.IntVar(&opts.MinLength, "min-length", 0, "drop words shorter than this (default 2)")
	f.BoolVar(&opts.KeepNumbers, "numbers", false, "keep tokens made only of digits")

	// Layout
	f.Uint64Var(&opts.Seed, "seed", 0, "random seed (default 42)")
	f.BoolVar(&opts.Randomize, "randomize", false, "pick a fresh random seed")
	f.StringVar(&rf.rotation, "rotation", "", "rotation policy: "+strings.Join(placement.RotationNames(), ", "))
	f.Float64Var(&opts.Scale, "scale", 0, "overall word size multiplier (default 1)")
	f.Float64Var(&opts.PaddingScale, "padding", 0, "space between words, relative to word size (default 1)")
	f.Float64Var(&opts.DistanceStep, "distance-step", 0, "radial step multiplier of the placement search (default 1)")
	f.Float64Var(&opts.RadialStep, "radial-step", 0, "angular step multiplier of the placement search (default 1)")

	// Render
	f.StringVar(&opts.Title, "title", "", "document title (svg, pdf)")
	f.BoolVar(&opts.Hover, "hover", false, "highlight words on hover (svg)")
	f.Float64Var(&opts.PNGScale, "png-scale", 0, "png resolution multiplier (default 2)")
}

// apply loads the profile, re-applies the flags given on the command line on
// top of it and parses the list and enum flags.
func (rf *renderFlags) apply(flags *pflag.FlagSet, opts *pipeline.Options) error {
	if rf.config != "" {
		type setFlag struct{ name, value string }
		var changed []setFlag
		flags.Visit(func(f *pflag.Flag) {
			changed = append(changed, setFlag{f.Name, f.Value.String()})
		})
		if err := loadProfile(rf.config, opts); err != nil {
			return err
		}
		for _, f := range changed {
			if err := flags.Set(f.name, f.value); err != nil {
				return err
			}
		}
	}

	if flags.Changed("format") || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(rf.formats)
	}
	if flags.Changed("include") {
		opts.Include = splitList(rf.include)
	}
	if flags.Changed("exclude") {
		opts.Exclude = splitList(rf.exclude)
	}
	if flags.Changed("focus-angle") {
		angle := rf.focusAngle
		opts.FocusAngle = &angle
	}
	if flags.Changed("rotation") {
		r, err := placement.ParseRotation(rf.rotation)
		if err != nil {
			return err
		}
		opts.Rotation = r
	}
	if flags.Changed("bubble") {
		b, err := placement.ParseBubble(rf.bubble)
		if err != nil {
			return err
		}
		opts.Bubble = b
	}
	return pipeline.ValidateFormats(opts.Formats)
}

// runRender reads the input, runs the pipeline and writes one file per
// format.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *pipeline.Options, rf *renderFlags) error {
	ctx := cmd.Context()
	out := printer{cmd.OutOrStdout()}
	prog := newProgress(c.Logger)

	if rf.output == "-" && len(opts.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidPath, "cannot write %d formats to stdout", len(opts.Formats))
	}

	runner, err := c.newRunner(rf.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinner(ctx, os.Stderr, "Reading "+describeInput(input)+"...")
	spin.Start()
	defer spin.Stop()

	data, err := readInput(ctx, input, cmd.InOrStdin(), source.NewClient(runner.Cache, c.Logger), opts.Refresh)
	if err != nil {
		return err
	}
	if rf.frequencies {
		if opts.Frequencies, err = parseFrequencies(data); err != nil {
			return err
		}
	} else {
		opts.Text = string(data)
	}
	c.Logger.Debug("read input", "source", describeInput(input), "bytes", len(data))

	spin.SetMessage("Laying out words...")
	opts.Logger = c.Logger
	result, err := runner.Execute(ctx, *opts)
	spin.Stop()
	if err != nil {
		if spin.Cancelled() {
			out.warning("Cancelled")
		}
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d of %d words", result.Stats.Placed, result.Stats.DistinctWords))

	base := basePath(rf.output, input)
	var written []string
	for _, format := range opts.Formats {
		dst := outputPath(rf.output, base, format, len(opts.Formats))
		if err := writeOutput(dst, result.Artifacts[format], cmd.OutOrStdout()); err != nil {
			return err
		}
		written = append(written, dst)
	}

	if rf.output == "-" {
		return nil
	}
	out.success("Rendered word cloud (seed %d)", result.Layout.Seed)
	out.stats(result.Stats.Placed, result.Stats.Unplaced, result.CacheInfo.LayoutHit)
	for _, dst := range written {
		out.file(dst)
	}
	return nil
}

// basePath derives the base output path. If output is empty it strips the
// extension from input (or uses "wordcloud" for stdin); if output ends in a
// format extension, that extension is stripped. URL inputs use the last
// element of the URL path in the working directory.
func basePath(output, input string) string {
	if output == "" {
		if source.IsURL(input) {
			u, _ := url.Parse(input)
			input = path.Base(u.Path)
			if input == "/" || input == "." {
				return appName
			}
		}
		if input == "" || input == "-" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath is output itself for a single format, else base.format.
func outputPath(output, base, format string, formats int) string {
	if output != "" && formats == 1 {
		return output
	}
	return base + "." + format
}
