package geom

import "math"

// Rect is an axis-aligned rectangle described by its minimum and maximum
// corners. A zero Rect is empty.
type Rect struct {
	MinX float64 `json:"min_x" bson:"min_x"`
	MinY float64 `json:"min_y" bson:"min_y"`
	MaxX float64 `json:"max_x" bson:"max_x"`
	MaxY float64 `json:"max_y" bson:"max_y"`
}

// RectXYWH builds a Rect from an origin and a size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// EmptyRect returns a Rect that any Union will replace.
func EmptyRect() Rect {
	return Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }
func (r Rect) Area() float64   { return max(0, r.Width()) * max(0, r.Height()) }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.MaxX <= r.MinX || r.MaxY <= r.MinY }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Inflate grows r by dx on the left and right and dy on the top and bottom.
func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{MinX: r.MinX - dx, MinY: r.MinY - dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Translate moves r by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{MinX: r.MinX + d.X, MinY: r.MinY + d.Y, MaxX: r.MaxX + d.X, MaxY: r.MaxY + d.Y}
}

// ContainsPoint reports whether p lies strictly inside r.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X > r.MinX && p.X < r.MaxX && p.Y > r.MinY && p.Y < r.MaxY
}

// ContainsRect reports whether o lies within r, edges included.
func (r Rect) ContainsRect(o Rect) bool {
	return o.MinX >= r.MinX && o.MaxX <= r.MaxX && o.MinY >= r.MinY && o.MaxY <= r.MaxY
}

// Overlaps reports whether r and o share interior area.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Union returns the smallest Rect covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: min(r.MinX, o.MinX), MinY: min(r.MinY, o.MinY),
		MaxX: max(r.MaxX, o.MaxX), MaxY: max(r.MaxY, o.MaxY),
	}
}

// Extend grows r to include p.
func (r Rect) Extend(p Point) Rect {
	return Rect{
		MinX: min(r.MinX, p.X), MinY: min(r.MinY, p.Y),
		MaxX: max(r.MaxX, p.X), MaxY: max(r.MaxY, p.Y),
	}
}
