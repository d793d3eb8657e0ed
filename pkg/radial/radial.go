// Package radial produces candidate points on a ring around the canvas center.
//
// A [Source] walks one ellipse of a given radius. The ellipse is stretched
// horizontally by the canvas aspect ratio so that rings follow the canvas
// proportions. Larger rings use a finer angular step, which keeps the spacing
// between consecutive points roughly constant along the arc.
package radial

import (
	"math"

	"github.com/matzehuels/wordcloud/pkg/geom"
	"github.com/matzehuels/wordcloud/pkg/random"
)

// DefaultStep is the base angular increment, in degrees, at radius 1.
const DefaultStep = 90.0

// Source is a finite, non-restartable sequence of points on one ring.
type Source struct {
	center geom.Point
	radius float64
	aspect float64

	start float64 // degrees, one of 0/90/180/270
	dir   float64 // +1 or -1
	inc   float64 // degrees between points
	n     int     // total points
	i     int     // next index
}

// New creates a Source for the ring of the given radius around center.
//
// step is the angular increment at radius 1; the effective increment is
// step/sqrt(radius). It is then rounded down so that a whole number of steps
// spans exactly 360 degrees: the closing angle start±360 lands on the start
// point, which is emitted once. A radius of 0 yields only the center.
func New(center geom.Point, radius, step, aspect float64, rng random.Source) *Source {
	s := &Source{center: center, radius: radius, aspect: aspect, dir: 1}
	if aspect <= 0 {
		s.aspect = 1
	}
	if radius <= 0 {
		s.n = 1
		return s
	}
	if step <= 0 {
		step = DefaultStep
	}

	s.start = rng.Quadrant()
	if rng.Float() < 0.5 {
		s.dir = -1
	}
	s.n = max(1, int(math.Ceil(360/(step/math.Sqrt(radius)))))
	s.inc = 360 / float64(s.n)
	return s
}

// Next returns the next candidate point. ok is false once the ring is
// exhausted.
func (s *Source) Next() (p geom.Point, ok bool) {
	if s.i >= s.n {
		return geom.Point{}, false
	}
	if s.radius <= 0 {
		s.i++
		return s.center, true
	}
	off := geom.Polar(s.angle(s.i), s.radius)
	s.i++
	return geom.Point{X: s.center.X + off.X*s.aspect, Y: s.center.Y + off.Y}, true
}

func (s *Source) angle(i int) float64 { return s.start + s.dir*s.inc*float64(i) }

// Start returns the starting angle in degrees.
func (s *Source) Start() float64 { return s.start }

// End returns the closing angle of the sweep, start+360 or start-360
// depending on direction. For a zero radius it equals Start.
func (s *Source) End() float64 {
	if s.radius <= 0 {
		return s.start
	}
	return s.angle(s.n)
}

// Increment returns the angular step in degrees.
func (s *Source) Increment() float64 { return s.inc }

// Len returns the number of points the ring yields in total.
func (s *Source) Len() int { return s.n }
