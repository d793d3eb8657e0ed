package region

import "image"

// span is a half-open run [x0, x1) of occupied cells on one row.
type span struct {
	x0, x1 int
}

// Mask is a rasterized shape: a list of spans for each row starting at y0.
// Masks are produced by a [Rasterizer] and are read-only once returned.
type Mask struct {
	y0   int
	rows [][]span
}

// Empty reports whether the mask covers no cells.
func (m *Mask) Empty() bool {
	for _, row := range m.rows {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// Area returns the number of covered cells.
func (m *Mask) Area() int {
	n := 0
	for _, row := range m.rows {
		for _, s := range row {
			n += s.x1 - s.x0
		}
	}
	return n
}

// Bounds returns the tight integer bounds of the covered cells.
func (m *Mask) Bounds() image.Rectangle {
	var b image.Rectangle
	for i, row := range m.rows {
		if len(row) == 0 {
			continue
		}
		r := image.Rect(row[0].x0, m.y0+i, row[len(row)-1].x1, m.y0+i+1)
		b = b.Union(r)
	}
	return b
}

// Dilate returns a copy of m grown by n cells in every direction, which keeps
// a margin of whitespace around the shape when it is tested for collisions.
func (m *Mask) Dilate(n int) *Mask {
	if n <= 0 {
		return m
	}
	out := &Mask{y0: m.y0 - n, rows: make([][]span, len(m.rows)+2*n)}
	for i, row := range m.rows {
		if len(row) == 0 {
			continue
		}
		grown := make([]span, len(row))
		for j, s := range row {
			grown[j] = span{s.x0 - n, s.x1 + n}
		}
		for dy := 0; dy <= 2*n; dy++ {
			out.rows[i+dy] = mergeSpans(out.rows[i+dy], grown)
		}
	}
	return out
}

// mergeSpans returns the union of two sorted, non-overlapping span lists.
// Adjacent spans are coalesced.
func mergeSpans(a, b []span) []span {
	if len(b) == 0 {
		return a
	}
	out := make([]span, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var next span
		if j >= len(b) || (i < len(a) && a[i].x0 <= b[j].x0) {
			next = a[i]
			i++
		} else {
			next = b[j]
			j++
		}
		if n := len(out); n > 0 && next.x0 <= out[n-1].x1 {
			out[n-1].x1 = max(out[n-1].x1, next.x1)
			continue
		}
		out = append(out, next)
	}
	return out
}

// Translate returns a copy of m moved by (dx, dy) cells.
func (m *Mask) Translate(dx, dy int) *Mask {
	out := &Mask{y0: m.y0 + dy, rows: make([][]span, len(m.rows))}
	for i, row := range m.rows {
		if len(row) == 0 {
			continue
		}
		moved := make([]span, len(row))
		for j, s := range row {
			moved[j] = span{s.x0 + dx, s.x1 + dx}
		}
		out.rows[i] = moved
	}
	return out
}

// overlaps reports whether two sorted span lists share any cell, with b
// shifted right by dx.
func overlaps(a, b []span, dx int) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].x0 < b[j].x1+dx && b[j].x0+dx < a[i].x1 {
			return true
		}
		if a[i].x1 <= b[j].x1+dx {
			i++
		} else {
			j++
		}
	}
	return false
}
