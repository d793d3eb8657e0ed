package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Op is a path segment operation.
type Op uint8

const (
	OpMoveTo Op = iota
	OpLineTo
	OpQuadTo
	OpCubeTo
	OpClose
)

// Segment is one path command. Pts holds the control points followed by the
// end point: one point for MoveTo and LineTo, two for QuadTo, three for
// CubeTo, none for Close.
type Segment struct {
	Op  Op
	Pts [3]Point
}

// n returns how many entries of Pts are meaningful.
func (s Segment) n() int {
	switch s.Op {
	case OpMoveTo, OpLineTo:
		return 1
	case OpQuadTo:
		return 2
	case OpCubeTo:
		return 3
	}
	return 0
}

// Path is a vector outline made of one or more closed contours.
//
// A Path is a plain value with a reusable backing slice: Reset keeps the
// capacity so the placement search can rebuild candidate shapes without
// allocating on every attempt.
type Path struct {
	segs []Segment
}

// NewPath returns an empty path with room for n segments.
func NewPath(n int) *Path {
	return &Path{segs: make([]Segment, 0, n)}
}

func (p *Path) MoveTo(x, y float64) { p.segs = append(p.segs, Segment{Op: OpMoveTo, Pts: [3]Point{{x, y}}}) }
func (p *Path) LineTo(x, y float64) { p.segs = append(p.segs, Segment{Op: OpLineTo, Pts: [3]Point{{x, y}}}) }
func (p *Path) Close()              { p.segs = append(p.segs, Segment{Op: OpClose}) }

// QuadTo adds a quadratic Bézier with control (cx, cy) ending at (x, y).
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.segs = append(p.segs, Segment{Op: OpQuadTo, Pts: [3]Point{{cx, cy}, {x, y}}})
}

// CubeTo adds a cubic Bézier with controls (c1x, c1y), (c2x, c2y) ending at (x, y).
func (p *Path) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.segs = append(p.segs, Segment{Op: OpCubeTo, Pts: [3]Point{{c1x, c1y}, {c2x, c2y}, {x, y}}})
}

// Append adds every segment of o, transformed by m.
func (p *Path) Append(o *Path, m Matrix) {
	for _, s := range o.segs {
		for i := range s.n() {
			s.Pts[i] = m.Apply(s.Pts[i])
		}
		p.segs = append(p.segs, s)
	}
}

// Reset empties the path but keeps its storage.
func (p *Path) Reset() { p.segs = p.segs[:0] }

// Len returns the number of segments.
func (p *Path) Len() int { return len(p.segs) }

// Segments returns the path's segments. The slice must not be modified.
func (p *Path) Segments() []Segment { return p.segs }

// Clone returns an independent copy of p.
func (p *Path) Clone() *Path {
	return &Path{segs: append([]Segment(nil), p.segs...)}
}

// Transform rewrites p in place by m.
func (p *Path) Transform(m Matrix) {
	for i := range p.segs {
		for j := range p.segs[i].n() {
			p.segs[i].Pts[j] = m.Apply(p.segs[i].Pts[j])
		}
	}
}

// TransformInto writes p transformed by m into dst, reusing dst's storage.
func (p *Path) TransformInto(dst *Path, m Matrix) {
	dst.Reset()
	dst.Append(p, m)
}

// curveSteps is the number of samples per Bézier when computing bounds.
const curveSteps = 8

// Bounds returns the tight axis-aligned bounding box of the drawn outline.
// Curves are sampled, so the result may be marginally inside the exact
// extremum for very flat curves.
func (p *Path) Bounds() Rect {
	b := EmptyRect()
	var cur Point
	for _, s := range p.segs {
		switch s.Op {
		case OpMoveTo, OpLineTo:
			cur = s.Pts[0]
			b = b.Extend(cur)
		case OpQuadTo:
			for i := 1; i <= curveSteps; i++ {
				b = b.Extend(quadAt(cur, s.Pts[0], s.Pts[1], float64(i)/curveSteps))
			}
			cur = s.Pts[1]
		case OpCubeTo:
			for i := 1; i <= curveSteps; i++ {
				b = b.Extend(cubeAt(cur, s.Pts[0], s.Pts[1], s.Pts[2], float64(i)/curveSteps))
			}
			cur = s.Pts[2]
		}
	}
	if math.IsInf(b.MinX, 1) {
		return Rect{}
	}
	return b
}

func quadAt(p0, p1, p2 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

func cubeAt(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*u*p0.X + 3*u*u*t*p1.X + 3*u*t*t*p2.X + t*t*t*p3.X,
		Y: u*u*u*p0.Y + 3*u*u*t*p1.Y + 3*u*t*t*p2.Y + t*t*t*p3.Y,
	}
}

// SVG returns the path as an SVG path-data string with two decimals.
func (p *Path) SVG() string {
	var b strings.Builder
	for i, s := range p.segs {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch s.Op {
		case OpMoveTo:
			b.WriteByte('M')
		case OpLineTo:
			b.WriteByte('L')
		case OpQuadTo:
			b.WriteByte('Q')
		case OpCubeTo:
			b.WriteByte('C')
		case OpClose:
			b.WriteByte('Z')
			continue
		}
		for j := range s.n() {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(fmtCoord(s.Pts[j].X))
			b.WriteByte(',')
			b.WriteString(fmtCoord(s.Pts[j].Y))
		}
	}
	return b.String()
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// String implements fmt.Stringer for debugging.
func (p *Path) String() string {
	return fmt.Sprintf("Path(%d segments)", len(p.segs))
}
