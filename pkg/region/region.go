package region

import (
	"image"

	"github.com/matzehuels/wordcloud/pkg/geom"
)

// Region is a union-only set of grid cells bounded by a fixed rectangle.
// Cells outside the bounds are silently dropped on Union.
//
// A Region is not safe for concurrent mutation.
type Region struct {
	bounds image.Rectangle
	rows   [][]span
	area   int
}

// New returns an empty region limited to bounds.
func New(bounds image.Rectangle) *Region {
	return &Region{
		bounds: bounds,
		rows:   make([][]span, bounds.Dy()),
	}
}

// Bounds returns the rectangle the region is limited to.
func (r *Region) Bounds() image.Rectangle { return r.bounds }

// Area returns the number of occupied cells.
func (r *Region) Area() int { return r.area }

// Union adds every cell of m to the region.
func (r *Region) Union(m *Mask) {
	for i, row := range m.rows {
		y := m.y0 + i
		if y < r.bounds.Min.Y || y >= r.bounds.Max.Y || len(row) == 0 {
			continue
		}
		clipped := r.clip(row)
		if len(clipped) == 0 {
			continue
		}
		idx := y - r.bounds.Min.Y
		before := spanArea(r.rows[idx])
		r.rows[idx] = mergeSpans(r.rows[idx], clipped)
		r.area += spanArea(r.rows[idx]) - before
	}
}

// Intersects reports whether any cell of m is already occupied.
func (r *Region) Intersects(m *Mask) bool { return r.IntersectsAt(m, 0, 0) }

// IntersectsAt is Intersects for m moved by (dx, dy), without copying m.
func (r *Region) IntersectsAt(m *Mask, dx, dy int) bool {
	for i, row := range m.rows {
		y := m.y0 + i + dy
		if y < r.bounds.Min.Y || y >= r.bounds.Max.Y || len(row) == 0 {
			continue
		}
		if overlaps(r.rows[y-r.bounds.Min.Y], row, dx) {
			return true
		}
	}
	return false
}

// Contains reports whether the cell under p is occupied.
func (r *Region) Contains(p geom.Point) bool {
	x, y := floor(p.X), floor(p.Y)
	if !(image.Point{X: x, Y: y}).In(r.bounds) {
		return false
	}
	for _, s := range r.rows[y-r.bounds.Min.Y] {
		if x >= s.x0 && x < s.x1 {
			return true
		}
		if s.x0 > x {
			break
		}
	}
	return false
}

// Extent returns the tight bounds of the occupied cells.
func (r *Region) Extent() image.Rectangle {
	var b image.Rectangle
	for i, row := range r.rows {
		if len(row) == 0 {
			continue
		}
		y := r.bounds.Min.Y + i
		b = b.Union(image.Rect(row[0].x0, y, row[len(row)-1].x1, y+1))
	}
	return b
}

func (r *Region) clip(row []span) []span {
	out := make([]span, 0, len(row))
	for _, s := range row {
		s.x0 = max(s.x0, r.bounds.Min.X)
		s.x1 = min(s.x1, r.bounds.Max.X)
		if s.x1 > s.x0 {
			out = append(out, s)
		}
	}
	return out
}

func spanArea(row []span) int {
	n := 0
	for _, s := range row {
		n += s.x1 - s.x0
	}
	return n
}
