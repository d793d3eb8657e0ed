// Package sizing converts word frequencies into font sizes.
//
// Sizes are proportional to frequency and share one global scale. The scale
// starts from a guess derived from the canvas and the typeface, grows until
// the largest word fills a minimum share of the canvas, and then shrinks until
// every word fits the width and area limits. Both loops are bounded; a
// configuration that never satisfies the limits fails with
// [errors.ErrCodeSizingDiverged].
package sizing

import (
	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/geom"
	"github.com/matzehuels/wordcloud/pkg/random"
	"github.com/matzehuels/wordcloud/pkg/typeset"
)

const (
	DefaultFocusBoost       = 1.2
	DefaultMinAreaFraction  = 0.04
	DefaultMaxWidthFraction = 0.9
	DefaultMaxAreaFraction  = 0.3
	DefaultGrowStep         = 1.05
	DefaultShrinkStep       = 0.95
	DefaultJitter           = 0.1
	DefaultMaxIterations    = 500

	// MinBaseScale keeps the starting guess at a measurable size.
	MinBaseScale = 1.0
)

// Options configures an [Engine]. Zero values take the defaults above; a
// negative Jitter disables jitter.
type Options struct {
	Width, Height float64
	Face          *fonts.Face
	Measurer      typeset.Measurer
	RNG           random.Source

	Scale        float64 // user scale factor
	PaddingScale float64
	StrokeWidth  float64

	FocusBoost       float64
	MinAreaFraction  float64
	MaxWidthFraction float64
	MaxAreaFraction  float64
	GrowStep         float64
	ShrinkStep       float64
	Jitter           float64
	MaxIterations    int
}

func (o *Options) setDefaults() {
	def := func(v *float64, d float64) {
		if *v <= 0 {
			*v = d
		}
	}
	def(&o.Scale, 1)
	def(&o.FocusBoost, DefaultFocusBoost)
	def(&o.MinAreaFraction, DefaultMinAreaFraction)
	def(&o.MaxWidthFraction, DefaultMaxWidthFraction)
	def(&o.MaxAreaFraction, DefaultMaxAreaFraction)
	def(&o.GrowStep, DefaultGrowStep)
	def(&o.ShrinkStep, DefaultShrinkStep)
	switch {
	case o.Jitter == 0:
		o.Jitter = DefaultJitter
	case o.Jitter < 0:
		o.Jitter = 0
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
}

// Result reports how the scale was found.
type Result struct {
	Base       float64 // initial guess
	Scale      float64 // final global scale
	Grown      int     // growth iterations
	Shrunk     int     // shrink iterations
	MaxFreq    float64 // largest effective frequency
	FocusBoost float64
}

// Engine sizes one word list.
type Engine struct {
	opts    Options
	words   []*cloud.Word
	eff     []float64 // effective frequency, focus boost applied
	jitter  []float64
	maxFreq float64
}

// New prepares an Engine. Jitter is drawn from the random source here, once
// per word, so that every recomputation sees the same draws.
func New(words []*cloud.Word, opts Options) (*Engine, error) {
	opts.setDefaults()
	if opts.Measurer == nil || opts.Face == nil {
		return nil, errors.New(errors.ErrCodeInternal, "sizing: measurer and face are required")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidSize, "sizing: canvas %gx%g", opts.Width, opts.Height)
	}
	if opts.RNG == nil {
		opts.RNG = random.New(0)
	}

	e := &Engine{
		opts:   opts,
		words:  words,
		eff:    make([]float64, len(words)),
		jitter: make([]float64, len(words)),
	}
	for i, w := range words {
		f := max(w.Frequency, 0)
		if w.Focus {
			f *= opts.FocusBoost
		}
		e.eff[i] = f
		e.maxFreq = max(e.maxFreq, f)
		if opts.Jitter > 0 {
			e.jitter[i] = opts.RNG.FloatRange(0, opts.Jitter)
		}
	}
	return e, nil
}

// BaseScale is the starting guess:
//
//	scale × typefaceMetric × max(width, height) / (averageFrequency × wordCount)
//
// Since averageFrequency × wordCount is the frequency total, the guess shrinks
// as the input grows.
func (e *Engine) BaseScale() float64 {
	var total float64
	for _, f := range e.eff {
		total += f
	}
	if total <= 0 {
		return MinBaseScale
	}
	metric := e.opts.Measurer.Metric(e.opts.Face)
	base := e.opts.Scale * metric * max(e.opts.Width, e.opts.Height) / total
	return max(base, MinBaseScale)
}

// Run computes every word's Size.
func (e *Engine) Run() (Result, error) {
	res := Result{FocusBoost: e.opts.FocusBoost, MaxFreq: e.maxFreq}
	if len(e.words) == 0 || e.maxFreq <= 0 {
		return res, nil
	}

	scale := e.BaseScale()
	res.Base = scale

	scale, grown, err := e.grow(scale)
	res.Grown = grown
	if err != nil {
		return res, err
	}

	scale, shrunk, err := e.shrink(scale)
	res.Shrunk = shrunk
	res.Scale = scale
	return res, err
}

func (e *Engine) canvasArea() float64 { return e.opts.Width * e.opts.Height }
func (e *Engine) maxWidth() float64   { return e.opts.Width * e.opts.MaxWidthFraction }

// largest returns the index of the word with the highest effective frequency.
func (e *Engine) largest() int {
	best := 0
	for i, f := range e.eff {
		if f > e.eff[best] {
			best = i
		}
	}
	return best
}

// grow raises scale until the largest word covers the minimum area fraction,
// stopping early once its padded width reaches the limit.
func (e *Engine) grow(scale float64) (float64, int, error) {
	i := e.largest()
	minArea := e.canvasArea() * e.opts.MinAreaFraction
	for n := 0; ; n++ {
		box, err := e.measure(i, scale)
		if err != nil {
			return scale, n, err
		}
		if box.Area() >= minArea || e.padded(box, e.size(i, scale)) > e.maxWidth() {
			return scale, n, nil
		}
		if n >= e.opts.MaxIterations {
			return scale, n, diverged("growth", n, scale)
		}
		scale *= e.opts.GrowStep
	}
}

// shrink recomputes the whole list at the current scale and lowers the scale
// while any word breaks the width or area limits.
func (e *Engine) shrink(scale float64) (float64, int, error) {
	maxArea := e.canvasArea() * e.opts.MaxAreaFraction
	for n := 0; ; n++ {
		ok := true
		for i := range e.words {
			size := e.size(i, scale)
			box, err := e.measure(i, scale)
			if err != nil {
				return scale, n, err
			}
			if e.padded(box, size) > e.maxWidth() || box.Area() > maxArea {
				ok = false
				break
			}
		}
		if ok {
			for i, w := range e.words {
				w.Size = e.size(i, scale)
			}
			return scale, n, nil
		}
		if n >= e.opts.MaxIterations {
			return scale, n, diverged("shrink", n, scale)
		}
		scale *= e.opts.ShrinkStep
	}
}

// size is (frequency / maxFrequency) × scale × (1 + jitter).
func (e *Engine) size(i int, scale float64) float64 {
	return e.eff[i] / e.maxFreq * scale * (1 + e.jitter[i])
}

func (e *Engine) measure(i int, scale float64) (geom.Rect, error) {
	size := e.size(i, scale)
	if size <= 0 {
		return geom.Rect{}, nil
	}
	_, box, err := e.opts.Measurer.Measure(e.words[i].Text, e.opts.Face, size)
	if err != nil {
		return geom.Rect{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "measure %q", e.words[i].Text)
	}
	return box, nil
}

func (e *Engine) padded(box geom.Rect, size float64) float64 {
	return box.Width() + 2*cloud.Padding(size, e.opts.PaddingScale, e.opts.StrokeWidth)
}

func diverged(phase string, n int, scale float64) error {
	return errors.New(errors.ErrCodeSizingDiverged,
		"%s did not converge after %d iterations (scale %.4g)", phase, n, scale)
}

// Size is shorthand for New followed by Run.
func Size(words []*cloud.Word, opts Options) (Result, error) {
	e, err := New(words, opts)
	if err != nil {
		return Result{}, err
	}
	return e.Run()
}
