package region

import (
	"image"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/geom"
)

func rectMask(rz *Rasterizer, x, y, w, h float64) *Mask {
	p := geom.NewPath(5)
	p.Rectangle(geom.RectXYWH(x, y, w, h))
	return rz.Mask(p)
}

func TestRasterizeRect(t *testing.T) {
	rz := NewRasterizer()
	m := rectMask(rz, 10, 10, 20, 5)
	if got := m.Area(); got != 100 {
		t.Errorf("Area() = %d, want 100", got)
	}
	if b := m.Bounds(); b != image.Rect(10, 10, 30, 15) {
		t.Errorf("Bounds() = %v", b)
	}
}

func TestRegionUnionIntersects(t *testing.T) {
	rz := NewRasterizer()
	r := New(image.Rect(0, 0, 100, 100))

	a := rectMask(rz, 10, 10, 20, 20)
	b := rectMask(rz, 25, 25, 20, 20)
	c := rectMask(rz, 60, 60, 10, 10)

	if r.Intersects(a) {
		t.Fatal("empty region should not intersect")
	}
	r.Union(a)
	if !r.Intersects(b) {
		t.Error("overlapping shape should intersect")
	}
	if r.Intersects(c) {
		t.Error("disjoint shape should not intersect")
	}
	if !r.Contains(geom.Pt(15, 15)) || r.Contains(geom.Pt(65, 65)) {
		t.Error("Contains mismatch")
	}
}

func TestRegionAreaMonotonic(t *testing.T) {
	rz := NewRasterizer()
	r := New(image.Rect(0, 0, 200, 200))
	shapes := []*Mask{
		rectMask(rz, 0, 0, 50, 50),
		rectMask(rz, 25, 25, 50, 50),
		rectMask(rz, 0, 0, 10, 10),
		rectMask(rz, 150, 150, 80, 80),
	}
	prev := 0
	for i, m := range shapes {
		r.Union(m)
		if r.Area() < prev {
			t.Fatalf("step %d: area shrank from %d to %d", i, prev, r.Area())
		}
		prev = r.Area()
	}
	if want := 2500 + 2500 - 625 + 50*50; r.Area() != want {
		t.Errorf("Area() = %d, want %d", r.Area(), want)
	}
}

func TestRegionClipsToBounds(t *testing.T) {
	rz := NewRasterizer()
	r := New(image.Rect(0, 0, 10, 10))
	r.Union(rectMask(rz, -5, -5, 10, 10))
	if r.Area() != 25 {
		t.Errorf("Area() = %d, want 25", r.Area())
	}
	if ext := r.Extent(); ext != image.Rect(0, 0, 5, 5) {
		t.Errorf("Extent() = %v", ext)
	}
}

func TestMaskDilate(t *testing.T) {
	rz := NewRasterizer()
	m := rectMask(rz, 10, 10, 2, 2).Dilate(3)
	if b := m.Bounds(); b != image.Rect(7, 7, 15, 15) {
		t.Errorf("dilated bounds = %v", b)
	}
	if m.Area() != 64 {
		t.Errorf("dilated area = %d, want 64", m.Area())
	}
}

func TestMergeSpans(t *testing.T) {
	tests := []struct {
		name string
		a, b []span
		want []span
	}{
		{"disjoint", []span{{0, 2}}, []span{{5, 6}}, []span{{0, 2}, {5, 6}}},
		{"overlap", []span{{0, 4}}, []span{{2, 6}}, []span{{0, 6}}},
		{"adjacent", []span{{0, 2}}, []span{{2, 3}}, []span{{0, 3}}},
		{"coalesce b", nil, []span{{0, 3}, {2, 5}}, []span{{0, 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeSpans(tt.a, tt.b)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestIntersectsAtMatchesTranslate(t *testing.T) {
	rz := NewRasterizer()
	r := New(image.Rect(0, 0, 100, 100))
	r.Union(rectMask(rz, 40, 40, 10, 10))

	m := rectMask(rz, 0, 0, 5, 5)
	tests := []struct {
		dx, dy int
		want   bool
	}{
		{0, 0, false},
		{38, 38, true},
		{35, 40, false},
		{36, 40, true},
		{49, 49, true},
		{50, 45, false},
	}
	for _, tt := range tests {
		if got := r.IntersectsAt(m, tt.dx, tt.dy); got != tt.want {
			t.Errorf("IntersectsAt(%d,%d) = %v, want %v", tt.dx, tt.dy, got, tt.want)
		}
		if got := r.Intersects(m.Translate(tt.dx, tt.dy)); got != tt.want {
			t.Errorf("Translate(%d,%d) = %v, want %v", tt.dx, tt.dy, got, tt.want)
		}
	}
	if b := m.Translate(3, 4).Bounds(); b != image.Rect(3, 4, 8, 9) {
		t.Errorf("translated bounds = %v", b)
	}
}
