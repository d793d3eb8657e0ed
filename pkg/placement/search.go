// Package placement finds a free spot on the canvas for one word at a time.
//
// The search is a small state machine:
//
//	SelectOrientation → ScanRadius → ScanAngle → Evaluate
//	                                               ├─ Accept
//	                                               ├─ NextAngle       (back to ScanAngle)
//	    ScanAngle exhausted ─────────────────────→ ├─ NextRadius      (back to ScanRadius)
//	    ScanRadius past the canvas max radius ───→ ├─ NextOrientation (back to SelectOrientation)
//	    no orientations left ────────────────────→ └─ Exhausted
//
// Rings start at the canvas center and grow outwards, so the first free
// point found is also roughly the most central one. The search is greedy: the
// first accepted point ends it.
//
// [Search.Place] never mutates the canvas. The caller draws the word if it
// wants to and then calls [Search.Commit] before searching for the next word.
package placement

import (
	"math"

	"github.com/matzehuels/wordcloud/pkg/canvas"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/geom"
	"github.com/matzehuels/wordcloud/pkg/radial"
	"github.com/matzehuels/wordcloud/pkg/random"
	"github.com/matzehuels/wordcloud/pkg/typeset"
)

// Options configures a [Search].
type Options struct {
	Measurer typeset.Measurer
	Face     *fonts.Face
	RNG      random.Source

	Rotation Rotation
	Bubble   Bubble

	// FocusAngle, when set, is the only angle tried for focus words.
	FocusAngle *float64

	PaddingScale float64
	StrokeWidth  float64

	// DistanceStep scales the gap between rings. Zero means 1.
	DistanceStep float64
	// RadialStep scales the angular gap between points on a ring. Zero means 1.
	RadialStep float64
}

// Placement is an accepted position for a word.
type Placement struct {
	Word      *cloud.Word
	Position  geom.Point // center of Box
	Angle     float64
	Box       geom.Rect
	Footprint *geom.Path
	Bubble    *geom.Path
	Radius    float64

	shape *canvas.Shape
}

// Stats counts the work done by the last call to Place.
type Stats struct {
	Orientations int
	Rings        int
	Candidates   int
}

type state int

const (
	stateSelectOrientation state = iota
	stateScanRadius
	stateScanAngle
	stateEvaluate
	stateAccept
	stateExhausted
)

// Search places words against one canvas. It is not safe for concurrent
// use: the canvas has a single writer.
type Search struct {
	canvas *canvas.Canvas
	opts   Options
	total  int
	placed int
	stats  Stats

	// Scratch buffers reused across orientations and words.
	rotated *geom.Path
	bubble  *geom.Path
}

// New creates a Search over c. total is the number of words that will be
// searched; it drives the coarsening of the radius step as the canvas fills.
func New(c *canvas.Canvas, total int, opts Options) *Search {
	if opts.DistanceStep <= 0 {
		opts.DistanceStep = 1
	}
	if opts.RadialStep <= 0 {
		opts.RadialStep = 1
	}
	if opts.RNG == nil {
		opts.RNG = random.New(0)
	}
	return &Search{
		canvas:  c,
		opts:    opts,
		total:   max(total, 1),
		rotated: geom.NewPath(256),
		bubble:  geom.NewPath(16),
	}
}

// Stats returns the counters of the last Place call.
func (s *Search) Stats() Stats { return s.stats }

// Placed returns how many placements have been committed.
func (s *Search) Placed() int { return s.placed }

// Progress is the share of words already committed, in [0, 1].
func (s *Search) Progress() float64 { return min(1, float64(s.placed)/float64(s.total)) }

// Padding is the whitespace kept around a word of the given size.
func (s *Search) Padding(size float64) float64 {
	return cloud.Padding(size, s.opts.PaddingScale, s.opts.StrokeWidth)
}

// RadiusStep is the gap between rings for a word of the given size. It grows
// with the word and with progress, so later words search coarser rings.
func (s *Search) RadiusStep(size float64) float64 {
	return max(1, size*0.05*s.opts.DistanceStep) * (1 + s.Progress())
}

// angles returns the orientations to try for w.
func (s *Search) angles(w *cloud.Word) []float64 {
	if w.Focus && s.opts.FocusAngle != nil {
		return []float64{*s.opts.FocusAngle}
	}
	return s.opts.Rotation.Angles(s.opts.RNG)
}

// orientation is the prepared footprint of a word at one angle, rasterized
// once with its box centered on the origin.
type orientation struct {
	angle  float64
	box    geom.Rect // rotated footprint bounds, centered on the origin
	shape  *canvas.Shape
	bubble bool
}

func (s *Search) prepare(base *geom.Path, baseBox geom.Rect, angle, pad float64) orientation {
	c := baseBox.Center()
	m := geom.Translate(-c.X, -c.Y)
	if angle != 0 {
		m = geom.Rotate(angle).Multiply(m)
	}
	base.TransformInto(s.rotated, m)

	o := orientation{angle: angle, box: s.rotated.Bounds()}
	if s.opts.Bubble.Build(s.bubble, o.box, pad) {
		o.bubble = true
		o.shape = s.canvas.Rasterize(s.bubble, int(math.Ceil(s.opts.StrokeWidth)))
	} else {
		o.shape = s.canvas.Rasterize(s.rotated, int(math.Ceil(pad)))
	}
	return o
}

// Place searches for a free position for w. It reports false when every
// orientation was exhausted up to the canvas max radius.
func (s *Search) Place(w *cloud.Word) (Placement, bool) {
	s.stats = Stats{}

	base, baseBox, err := s.opts.Measurer.Measure(w.Text, s.opts.Face, w.Size)
	if err != nil || baseBox.Empty() {
		return Placement{}, false
	}

	var (
		pad     = s.Padding(w.Size)
		step    = s.RadiusStep(w.Size)
		maxR    = s.canvas.MaxRadius()
		center  = s.canvas.Center()
		angles  = s.angles(w)
		aspect  = s.canvas.Aspect()
		radStep = radial.DefaultStep * s.opts.RadialStep

		oi     = -1
		o      orientation
		radius float64
		ring   *radial.Source
		point  geom.Point
		dx, dy int
	)

	st := stateSelectOrientation
	for {
		switch st {
		case stateSelectOrientation:
			oi++
			if oi >= len(angles) {
				st = stateExhausted
				continue
			}
			s.stats.Orientations++
			o = s.prepare(base, baseBox, angles[oi], pad)
			radius = 0
			ring = nil
			st = stateScanRadius

		case stateScanRadius:
			if ring != nil {
				radius += step
			}
			if radius > maxR {
				st = stateSelectOrientation // NextOrientation
				continue
			}
			s.stats.Rings++
			ring = radial.New(center, radius, radStep, aspect, s.opts.RNG)
			st = stateScanAngle

		case stateScanAngle:
			p, ok := ring.Next()
			if !ok {
				st = stateScanRadius // NextRadius
				continue
			}
			point = p
			st = stateEvaluate

		case stateEvaluate:
			s.stats.Candidates++
			var ok bool
			dx, dy, ok = s.evaluate(o, point, center, pad)
			if ok {
				st = stateAccept
			} else {
				st = stateScanAngle // NextAngle
			}

		case stateAccept:
			d := geom.Pt(float64(dx), float64(dy))
			box := o.box.Translate(d)
			p := Placement{
				Word:     w,
				Position: box.Center(),
				Angle:    o.angle,
				Box:      box,
				Radius:   radius,
				shape:    o.shape.Translate(dx, dy),
			}
			// The word takes ownership of fresh paths; scratch buffers stay
			// with the search.
			p.Footprint = geom.NewPath(s.rotated.Len())
			s.rotated.TransformInto(p.Footprint, geom.Translate(d.X, d.Y))
			if o.bubble {
				p.Bubble = geom.NewPath(s.bubble.Len())
				s.bubble.TransformInto(p.Bubble, geom.Translate(d.X, d.Y))
			}
			return p, true

		case stateExhausted:
			return Placement{}, false
		}
	}
}

// evaluate tests one candidate point. It returns the whole-cell offset that
// moves the prepared orientation's box center onto the point, rounded so the
// rasterized shape can be reused without resampling.
func (s *Search) evaluate(o orientation, p, center geom.Point, pad float64) (int, int, bool) {
	if !s.canvas.Contains(p) && p != center {
		return 0, 0, false
	}
	off := p.Sub(o.box.Center())
	dx, dy := int(math.Round(off.X)), int(math.Round(off.Y))
	box := o.box.Translate(geom.Pt(float64(dx), float64(dy)))
	if s.canvas.FallsOutside(box.Inflate(pad, pad)) {
		return 0, 0, false
	}
	// The first word lands on an empty canvas.
	if s.placed > 0 && s.canvas.IntersectsAt(o.shape, dx, dy) {
		return 0, 0, false
	}
	return dx, dy, true
}

// Commit adds an accepted placement to the canvas and hands its paths to the
// word. It must be called before the next Place.
func (s *Search) Commit(p Placement) {
	s.canvas.Commit(p.shape)
	s.placed++

	w := p.Word
	w.Placed = true
	w.Position = p.Position
	w.Angle = p.Angle
	w.Box = p.Box
	w.Footprint = p.Footprint
	w.Bubble = p.Bubble
}
