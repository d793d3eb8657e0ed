// Package pipeline provides the tokenize → layout → render pipeline shared by
// the CLI and the API server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Tokenize: Count the words of a text into a frequency table (skipped
//     when the caller supplies frequencies directly)
//  2. Layout: Size, place and color the words on the canvas
//  3. Render: Encode the layout in the requested formats (SVG, PNG, PDF, JSON)
//
// Every stage result is cached under a key derived from its input and the
// options that affect it, so re-rendering the same text in another format
// skips tokenizing and placement.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Text:    text,
//	    Config:  engine.Config{Width: 1200, Height: 800, Palette: "ocean"},
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/engine"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/random"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
	"github.com/matzehuels/wordcloud/pkg/wordfreq"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeed is the default random seed. A fixed seed keeps repeated
	// renders identical and cacheable; set Randomize for a fresh layout.
	DefaultSeed = uint64(42)

	// MaxTextBytes bounds the input text accepted by Execute.
	MaxTextBytes = 32 << 20
)

// Format constants for output formats.
const (
	FormatSVG  = sink.FormatSVG
	FormatPNG  = sink.FormatPNG
	FormatPDF  = sink.FormatPDF
	FormatJSON = sink.FormatJSON
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. It supports JSON
// serialization for API requests and TOML for render profiles; the embedded
// layout settings appear at the top level in both.
type Options struct {
	// Input: exactly one of Text and Frequencies.
	Text        string             `toml:"-" json:"text,omitempty"`
	Frequencies map[string]float64 `toml:"-" json:"frequencies,omitempty"`

	// Tokenize options (the include, exclude and stop word settings live in
	// Config).
	MinLength   int  `toml:"min_length" json:"min_length,omitempty"`
	KeepNumbers bool `toml:"keep_numbers" json:"keep_numbers,omitempty"`

	// Layout options
	engine.Config
	Randomize bool `toml:"randomize" json:"randomize,omitempty"`

	// Render options
	Formats  []string `toml:"formats" json:"formats,omitempty"`
	Title    string   `toml:"title" json:"title,omitempty"`
	Hover    bool     `toml:"hover" json:"hover,omitempty"`
	PNGScale float64  `toml:"png_scale" json:"png_scale,omitempty"`

	Refresh bool `toml:"-" json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `toml:"-" json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Table is the counted word table; nil when Frequencies were given.
	Table *wordfreq.Table

	// TableHash is the content hash of the words the layout was built from.
	TableHash string

	// Layout is the finished cloud.
	Layout cloud.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	DistinctWords int
	TotalWords    int
	Placed        int
	Unplaced      int
	TokenizeTime  time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TokenizeHit bool // Whether the word table came from cache
	LayoutHit   bool // Whether the layout came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(sink.Formats(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFrequencies checks a caller-supplied frequency table.
func ValidateFrequencies(m map[string]float64) error {
	for w, f := range m {
		if strings.TrimSpace(w) == "" {
			return errors.New(errors.ErrCodeInvalidInput, "frequencies: empty word")
		}
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "frequencies: %q has invalid weight %v", w, f)
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForTokenize(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForTokenize checks the input fields.
func (o *Options) ValidateForTokenize() error {
	switch {
	case o.Text == "" && len(o.Frequencies) == 0:
		return errors.New(errors.ErrCodeInvalidInput, "text or frequencies is required")
	case o.Text != "" && len(o.Frequencies) > 0:
		return errors.New(errors.ErrCodeInvalidInput, "text and frequencies are mutually exclusive")
	case len(o.Text) > MaxTextBytes:
		return errors.New(errors.ErrCodeInvalidInput, "text is %d bytes, limit is %d", len(o.Text), MaxTextBytes)
	}
	if o.MinLength < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "min_length must not be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFrequencies(o.Frequencies)
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Randomize {
		o.Seed = random.TimeSeed()
		o.Randomize = false
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	o.Config.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return o.Config.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale == 0 {
		o.PNGScale = sink.DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return errors.ValidateRange(errors.ErrCodeInvalidInput, "png_scale", o.PNGScale, 0.1, 8)
}

// TokenizerOptions returns the tokenizer settings for the tokenize stage.
func (o *Options) TokenizerOptions() wordfreq.TokenizerOptions {
	t := o.Config.TokenizerOptions()
	t.MinLength = o.MinLength
	t.KeepNumbers = o.KeepNumbers
	return t
}

// FrequencyKeyOpts returns cache key options for the tokenize stage.
func (o *Options) FrequencyKeyOpts() cache.FrequencyKeyOpts {
	return cache.FrequencyKeyOpts{
		Include:        o.Include,
		Exclude:        o.Exclude,
		AllowStopwords: o.AllowStopwords,
		MinLength:      o.MinLength,
		KeepNumbers:    o.KeepNumbers,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:         o.Width,
		Height:        o.Height,
		Font:          o.Font,
		Background:    o.Background,
		Palette:       o.Palette,
		MaxColors:     o.MaxColors,
		Monochrome:    o.Monochrome,
		StrokeWidth:   o.StrokeWidth,
		StrokeColor:   o.StrokeColor,
		MaxWords:      o.MaxWords,
		FocusWord:     o.FocusWord,
		FocusAngle:    o.FocusAngle,
		Seed:          o.Seed,
		Rotation:      o.Rotation.String(),
		Bubble:        o.Bubble.String(),
		Scale:         o.Scale,
		PaddingScale:  o.PaddingScale,
		DistanceStep:  o.DistanceStep,
		RadialStep:    o.RadialStep,
		AllowOverflow: o.AllowOverflow,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPDF:
		k.Title, k.Hover = o.Title, o.Hover
	case FormatPNG:
		k.PNGScale = o.PNGScale
	}
	return k
}

// SinkOptions returns the options passed to the output writers.
func (o *Options) SinkOptions() sink.Options {
	return sink.Options{Title: o.Title, Hover: o.Hover, PNGScale: o.PNGScale}
}

func (o *Options) String() string {
	if o.Text != "" {
		return fmt.Sprintf("text(%d bytes)", len(o.Text))
	}
	return fmt.Sprintf("frequencies(%d words)", len(o.Frequencies))
}
