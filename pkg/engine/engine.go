// Package engine lays out a word cloud: it sizes the words, places them one
// by one on a shared canvas and picks their colors.
//
// A run is deterministic for a given seed, word list and [Config]:
//
//	cfg := engine.Config{Width: 800, Height: 600, Seed: 42}
//	e, err := engine.New(cfg, engine.Options{})
//	if err != nil {
//		return err
//	}
//	res, err := e.Run(ctx, cloud.FromMap(map[string]float64{"go": 10, "rust": 5}))
//
// The returned [Result] holds every word, placed or not, in placement order.
// Placement failures are not errors: the word is logged and kept with
// Placed set to false.
package engine

import (
	"context"
	"image"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/canvas"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/observability"
	"github.com/matzehuels/wordcloud/pkg/palette"
	"github.com/matzehuels/wordcloud/pkg/placement"
	"github.com/matzehuels/wordcloud/pkg/random"
	"github.com/matzehuels/wordcloud/pkg/sizing"
	"github.com/matzehuels/wordcloud/pkg/typeset"
)

// Options carries the runtime collaborators of an [Engine].
type Options struct {
	// Logger receives progress and warnings. Defaults to a discard logger.
	Logger *log.Logger
	// Measurer turns text into glyph outlines. Defaults to [typeset.New].
	Measurer typeset.Measurer
}

// Result is a finished layout.
type Result struct {
	Words []*cloud.Word // placement order, placed and unplaced

	Width, Height float64
	Background    palette.Color
	StrokeWidth   float64
	StrokeColor   palette.Color
	Face          *fonts.Face
	Bubble        placement.Bubble
	PaddingScale  float64
	Seed          uint64

	Sizing   sizing.Result
	Attempts int // words searched
	Placed   int
	Unplaced int

	// OccupiedArea is the committed area in canvas cells and OccupiedExtent
	// its bounds.
	OccupiedArea   int
	OccupiedExtent image.Rectangle
	Duration       time.Duration
}

// PlacedWords returns the accepted words in placement order.
func (r *Result) PlacedWords() []*cloud.Word { return cloud.Placed(r.Words) }

// Layout converts the result into its serialized form. The words are shared,
// not copied.
func (r *Result) Layout() cloud.Layout {
	return cloud.Layout{
		Width:        r.Width,
		Height:       r.Height,
		Background:   r.Background.Hex(),
		Font:         r.Face.Name,
		StrokeWidth:  r.StrokeWidth,
		StrokeColor:  r.StrokeColor.Hex(),
		Bubble:       r.Bubble.String(),
		PaddingScale: r.PaddingScale,
		Seed:         r.Seed,
		Scale:        r.Sizing.Scale,
		Placed:       r.Placed,
		Unplaced:     r.Unplaced,
		Words:        r.Words,
	}
}

// Engine runs layouts for one configuration. It holds no per-run state and
// may be shared; each Run builds its own canvas and random source.
type Engine struct {
	cfg      Config
	logger   *log.Logger
	measurer typeset.Measurer
}

// New validates cfg and returns an Engine.
func New(cfg Config, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Measurer == nil {
		opts.Measurer = typeset.New()
	}
	return &Engine{cfg: cfg, logger: opts.Logger, measurer: opts.Measurer}, nil
}

// Config returns the validated configuration.
func (e *Engine) Config() Config { return e.cfg }

// Run lays out words. The input slice and its words are not modified.
//
// Run checks ctx between words; on cancellation it returns an error with
// code CANCELLED and no result.
func (e *Engine) Run(ctx context.Context, words []*cloud.Word) (*Result, error) {
	start := time.Now()
	cfg := e.cfg

	seed := cfg.Seed
	if seed == 0 {
		seed = random.TimeSeed()
	}
	rng := random.New(seed)

	ws := e.prepare(words)
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(ws))

	res, err := e.run(ctx, ws, rng)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, len(ws), time.Since(start), err)
		return nil, err
	}
	res.Seed = seed
	res.Duration = time.Since(start)
	hooks.OnLayoutComplete(ctx, res.Placed, res.Unplaced, res.Duration, nil)

	e.logger.Debug("layout finished",
		"placed", res.Placed,
		"unplaced", res.Unplaced,
		"scale", res.Sizing.Scale,
		"seed", seed,
		"duration", res.Duration)
	return res, nil
}

func (e *Engine) run(ctx context.Context, words []*cloud.Word, rng *random.Locked) (*Result, error) {
	cfg := e.cfg
	face := cfg.Face()
	bg := cfg.BackgroundColor()
	width, height := float64(cfg.Width), float64(cfg.Height)

	res := &Result{
		Words:        words,
		Width:        width,
		Height:       height,
		Background:   bg,
		StrokeWidth:  cfg.StrokeWidth,
		StrokeColor:  cfg.Stroke(),
		Face:         face,
		Bubble:       cfg.Bubble,
		PaddingScale: cfg.PaddingScale,
	}
	if len(words) == 0 {
		return res, nil
	}

	sized, err := sizing.Size(words, sizing.Options{
		Width:        width,
		Height:       height,
		Face:         face,
		Measurer:     e.measurer,
		RNG:          rng,
		Scale:        cfg.Scale,
		PaddingScale: cfg.PaddingScale,
		StrokeWidth:  cfg.StrokeWidth,
	})
	res.Sizing = sized
	if err != nil {
		return nil, err
	}
	cloud.SortBySize(words)

	colors, err := palette.NewSelector(cfg.Colors(), rng, cfg.MaxColors)
	if err != nil {
		return nil, err
	}
	if cfg.Monochrome {
		if err := colors.Monochrome(bg); err != nil {
			return nil, err
		}
	}

	c := canvas.New(width, height, bg, cfg.AllowOverflow)
	search := placement.New(c, len(words), placement.Options{
		Measurer:     e.measurer,
		Face:         face,
		RNG:          rng,
		Rotation:     cfg.Rotation,
		Bubble:       cfg.Bubble,
		FocusAngle:   cfg.FocusAngle,
		PaddingScale: cfg.PaddingScale,
		StrokeWidth:  cfg.StrokeWidth,
		DistanceStep: cfg.DistanceStep,
		RadialStep:   cfg.RadialStep,
	})
	hooks := observability.Placement()

	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return nil, errors.Cancelled(err)
		}
		res.Attempts++

		p, ok := search.Place(w)
		st := search.Stats()
		if !ok {
			res.Unplaced++
			e.logger.Warn("word unplaced",
				"word", w.Text,
				"size", w.Size,
				"candidates", st.Candidates)
			hooks.OnWordUnplaced(ctx, w.Text, st.Candidates)
			continue
		}

		if err := e.paint(w, p, colors, bg); err != nil {
			return nil, err
		}
		search.Commit(p)
		res.Placed++
		hooks.OnWordPlaced(ctx, w.Text, st.Candidates, p.Radius)
	}

	res.OccupiedArea = c.OccupiedArea()
	res.OccupiedExtent = c.OccupiedExtent()
	return res, nil
}

// paint picks the colors of an accepted word. Bubbles stand out against the
// background and text against its bubble; without a bubble the text stands
// out against the background.
func (e *Engine) paint(w *cloud.Word, p placement.Placement, colors *palette.Selector, bg palette.Color) error {
	if p.Bubble == nil {
		c, err := colors.NextDistinctFrom(bg)
		if err != nil {
			return err
		}
		w.Color = c.Hex()
		return nil
	}

	bubble, err := colors.NextDistinctFrom(bg)
	if err != nil {
		return err
	}
	w.BubbleColor = bubble.Hex()

	text, err := colors.NextDistinctFrom(bubble)
	if errors.Is(err, errors.ErrCodeNoDistinctColor) {
		// A single-color palette knocks the text out of the bubble.
		text = bg
		if bg.IsTransparent() || !palette.Distinct(bg, bubble) {
			text = knockout(bubble)
		}
	} else if err != nil {
		return err
	}
	w.Color = text.Hex()
	return nil
}

// knockout returns black or white, whichever reads better on c.
func knockout(c palette.Color) palette.Color {
	if _, _, l := c.Color.Clamped().Hcl(); l > 0.6 {
		return palette.MustParse("black")
	}
	return palette.MustParse("white")
}

// prepare copies the input words, flags the focus word and keeps the
// MaxWords most frequent ones. The focus word is always kept.
func (e *Engine) prepare(words []*cloud.Word) []*cloud.Word {
	out := make([]*cloud.Word, 0, len(words))
	for _, w := range words {
		if w == nil || w.Text == "" {
			continue
		}
		out = append(out, &cloud.Word{
			Text:      w.Text,
			Frequency: w.Frequency,
			Focus:     w.Focus || (e.cfg.FocusWord != "" && strings.EqualFold(w.Text, e.cfg.FocusWord)),
		})
	}
	slices.SortStableFunc(out, func(a, b *cloud.Word) int {
		switch {
		case a.Frequency > b.Frequency:
			return -1
		case a.Frequency < b.Frequency:
			return 1
		}
		return strings.Compare(a.Text, b.Text)
	})

	limit := e.cfg.MaxWords
	if limit <= 0 || len(out) <= limit {
		return out
	}
	fi := slices.IndexFunc(out, func(w *cloud.Word) bool { return w.Focus })
	kept := out[:limit:limit]
	if fi >= limit {
		kept = append(kept[:limit-1:limit-1], out[fi])
	}
	return kept
}
