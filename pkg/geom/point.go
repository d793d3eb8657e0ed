// Package geom provides the 2D primitives shared by the placement engine:
// points, axis-aligned rectangles, affine matrices and vector paths.
//
// Coordinates follow the SVG convention: the origin is the top-left corner of
// the canvas and Y grows downwards.
package geom

import "math"

// Point is a 2D point or vector.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point        { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point        { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(s float64) Point      { return Point{p.X * s, p.Y * s} }
func (p Point) Length() float64          { return math.Hypot(p.X, p.Y) }
func (p Point) Distance(q Point) float64 { return p.Sub(q).Length() }

// Near reports whether p and q are within eps of each other on both axes.
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Polar converts an angle in degrees and a radius to a Cartesian offset.
func Polar(deg, r float64) Point {
	rad := deg * math.Pi / 180
	return Point{X: math.Cos(rad) * r, Y: math.Sin(rad) * r}
}
