package engine

import (
	"slices"
	"sort"
	"strings"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/palette"
	"github.com/matzehuels/wordcloud/pkg/placement"
	"github.com/matzehuels/wordcloud/pkg/wordfreq"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	DefaultWidth        = 800
	DefaultHeight       = 600
	DefaultBackground   = "white"
	DefaultStrokeColor  = "black"
	DefaultPaddingScale = 1.0
	DefaultScale        = 1.0
	DefaultMaxWords     = 100
)

// Limits for the numeric knobs.
const (
	MaxStrokeWidth  = 50
	MaxScaleFactor  = 10
	MaxPaddingScale = 10
	MaxStepFactor   = 10
	MaxWordCap      = 10000
	MaxColorCap     = 256
)

// Preset is a named canvas size.
type Preset struct {
	Name          string
	Width, Height int
}

var presets = map[string]Preset{
	"hd":     {"hd", 1280, 720},
	"fullhd": {"fullhd", 1920, 1080},
	"4k":     {"4k", 3840, 2160},
	"a4":     {"a4", 2480, 3508},
	"square": {"square", 1080, 1080},
	"banner": {"banner", 1500, 500},
}

// Presets returns the named sizes ordered by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupPreset finds a preset by name, ignoring case.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// =============================================================================
// Config
// =============================================================================

// Config is the full set of knobs for one cloud. The zero value is usable
// after SetDefaults; Validate resolves names into colors, a face and a
// canvas size.
//
// The struct round-trips through TOML and JSON so render profiles and API
// requests share it.
type Config struct {
	// Canvas. A non-empty Preset overrides Width and Height.
	Width         int    `toml:"width" json:"width,omitempty"`
	Height        int    `toml:"height" json:"height,omitempty"`
	Preset        string `toml:"preset" json:"preset,omitempty"`
	AllowOverflow bool   `toml:"allow_overflow" json:"allow_overflow,omitempty"`

	// Look.
	Font        string  `toml:"font" json:"font,omitempty"`
	Background  string  `toml:"background" json:"background,omitempty"`
	Palette     string  `toml:"palette" json:"palette,omitempty"` // palette name or color list
	MaxColors   int     `toml:"max_colors" json:"max_colors,omitempty"`
	Monochrome  bool    `toml:"monochrome" json:"monochrome,omitempty"`
	StrokeWidth float64 `toml:"stroke_width" json:"stroke_width,omitempty"`
	StrokeColor string  `toml:"stroke_color" json:"stroke_color,omitempty"`

	// Words.
	MaxWords       int      `toml:"max_words" json:"max_words,omitempty"`
	FocusWord      string   `toml:"focus_word" json:"focus_word,omitempty"`
	FocusAngle     *float64 `toml:"focus_angle" json:"focus_angle,omitempty"`
	AllowStopwords bool     `toml:"allow_stopwords" json:"allow_stopwords,omitempty"`
	Include        []string `toml:"include" json:"include,omitempty"`
	Exclude        []string `toml:"exclude" json:"exclude,omitempty"`

	// Layout.
	Seed         uint64             `toml:"seed" json:"seed,omitempty"` // 0 picks a time-based seed per run
	Rotation     placement.Rotation `toml:"rotation" json:"rotation,omitempty"`
	Bubble       placement.Bubble   `toml:"bubble" json:"bubble,omitempty"`
	Scale        float64            `toml:"scale" json:"scale,omitempty"`
	PaddingScale float64            `toml:"padding_scale" json:"padding_scale,omitempty"`
	DistanceStep float64            `toml:"distance_step" json:"distance_step,omitempty"`
	RadialStep   float64            `toml:"radial_step" json:"radial_step,omitempty"`

	resolved *resolved
}

// resolved holds what Validate derived from the names in Config.
type resolved struct {
	face        *fonts.Face
	background  palette.Color
	strokeColor palette.Color
	colors      []palette.Color
}

// SetDefaults fills unset fields. It is idempotent.
func (c *Config) SetDefaults() {
	if p, ok := LookupPreset(c.Preset); ok {
		c.Width, c.Height = p.Width, p.Height
	}
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Font == "" {
		c.Font = fonts.Default
	}
	if c.Background == "" {
		c.Background = DefaultBackground
	}
	if c.Palette == "" {
		c.Palette = palette.DefaultName
	}
	if c.StrokeColor == "" {
		c.StrokeColor = DefaultStrokeColor
	}
	if c.MaxWords == 0 {
		c.MaxWords = DefaultMaxWords
	}
	if c.Scale == 0 {
		c.Scale = DefaultScale
	}
	if c.PaddingScale == 0 {
		c.PaddingScale = DefaultPaddingScale
	}
	if c.DistanceStep == 0 {
		c.DistanceStep = 1
	}
	if c.RadialStep == 0 {
		c.RadialStep = 1
	}
}

// Validate applies defaults, checks every field and resolves fonts and
// colors. Errors carry an INVALID_* code.
func (c *Config) Validate() error {
	c.SetDefaults()

	if c.Preset != "" {
		if _, ok := LookupPreset(c.Preset); !ok {
			return errors.New(errors.ErrCodeInvalidSize, "unknown preset %q (one of: %s)",
				c.Preset, strings.Join(presetNames(), ", "))
		}
	}
	if err := errors.ValidateSize(c.Width, c.Height); err != nil {
		return err
	}

	if err := errors.ValidateFontName(c.Font); err != nil {
		return err
	}
	face, err := fonts.Lookup(c.Font)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFont, err, "font (one of: %s)", strings.Join(fonts.Names(), ", "))
	}

	bg, err := palette.Parse(c.Background)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidColor, err, "background")
	}
	stroke, err := palette.Parse(c.StrokeColor)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidColor, err, "stroke color")
	}
	colors, err := palette.Resolve(c.Palette)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(colors, func(p palette.Color) bool { return palette.Distinct(p, bg) }) {
		return errors.New(errors.ErrCodeInvalidColor,
			"palette %q has no color that stands out against background %s", c.Palette, bg.Hex())
	}

	checks := []struct {
		field    string
		v        float64
		min, max float64
	}{
		{"stroke width", c.StrokeWidth, 0, MaxStrokeWidth},
		{"scale", c.Scale, 0.01, MaxScaleFactor},
		{"padding scale", c.PaddingScale, 0, MaxPaddingScale},
		{"distance step", c.DistanceStep, 0.1, MaxStepFactor},
		{"radial step", c.RadialStep, 0.1, MaxStepFactor},
		{"max words", float64(c.MaxWords), 1, MaxWordCap},
		{"max colors", float64(c.MaxColors), 0, MaxColorCap},
	}
	for _, ch := range checks {
		if err := errors.ValidateRange(errors.ErrCodeInvalidInput, ch.field, ch.v, ch.min, ch.max); err != nil {
			return err
		}
	}
	if c.FocusAngle != nil {
		if err := errors.ValidateRange(errors.ErrCodeInvalidRotation, "focus angle", *c.FocusAngle, -360, 360); err != nil {
			return err
		}
	}
	words := append(slices.Clone(c.Include), c.Exclude...)
	if c.FocusWord != "" {
		words = append(words, c.FocusWord)
	}
	if err := errors.ValidateWords(words); err != nil {
		return err
	}

	c.resolved = &resolved{face: face, background: bg, strokeColor: stroke, colors: colors}
	return nil
}

// Face returns the resolved typeface. It is nil before Validate.
func (c *Config) Face() *fonts.Face {
	if c.resolved == nil {
		return nil
	}
	return c.resolved.face
}

// BackgroundColor returns the resolved background.
func (c *Config) BackgroundColor() palette.Color {
	if c.resolved == nil {
		return palette.Color{}
	}
	return c.resolved.background
}

// Stroke returns the resolved stroke color.
func (c *Config) Stroke() palette.Color {
	if c.resolved == nil {
		return palette.Color{}
	}
	return c.resolved.strokeColor
}

// Colors returns the resolved palette, before shuffling and capping.
func (c *Config) Colors() []palette.Color {
	if c.resolved == nil {
		return nil
	}
	return slices.Clone(c.resolved.colors)
}

// TokenizerOptions maps the word filters onto tokenizer options.
func (c *Config) TokenizerOptions() wordfreq.TokenizerOptions {
	return wordfreq.TokenizerOptions{
		Include:        c.Include,
		Exclude:        c.Exclude,
		AllowStopwords: c.AllowStopwords,
	}
}

func presetNames() []string {
	names := make([]string, 0, len(presets))
	for _, p := range Presets() {
		names = append(names, p.Name)
	}
	return names
}
