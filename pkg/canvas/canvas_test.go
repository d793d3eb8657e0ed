package canvas

import (
	"image/color"
	"math"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/geom"
)

func box(x, y, w, h float64) *geom.Path {
	p := geom.NewPath(5)
	p.Rectangle(geom.RectXYWH(x, y, w, h))
	return p
}

func TestNewClipBoundary(t *testing.T) {
	c := New(800, 600, color.White, false)
	if c.Clip() != c.Viewport() {
		t.Errorf("clip = %+v, want viewport", c.Clip())
	}

	o := New(800, 600, color.White, true)
	clip := o.Clip()
	if math.Abs(clip.Width()-800*BleedFactor) > 1e-9 || math.Abs(clip.Height()-600*BleedFactor) > 1e-9 {
		t.Errorf("overflow clip = %+v", clip)
	}
	if clip.Center() != o.Center() {
		t.Error("overflow clip should stay centered")
	}
}

func TestContainsAndFallsOutside(t *testing.T) {
	c := New(100, 100, color.White, false)
	if !c.Contains(geom.Pt(50, 50)) || c.Contains(geom.Pt(0, 50)) || c.Contains(geom.Pt(120, 50)) {
		t.Error("Contains should be strict")
	}
	if c.FallsOutside(geom.RectXYWH(10, 10, 80, 80)) {
		t.Error("inner rect should not fall outside")
	}
	if !c.FallsOutside(geom.RectXYWH(50, 50, 60, 10)) {
		t.Error("rect crossing the right edge should fall outside")
	}
}

func TestCommitIsMonotonic(t *testing.T) {
	c := New(200, 200, color.White, false)
	a := c.Rasterize(box(10, 10, 50, 50), 0)
	if c.Intersects(a) {
		t.Fatal("fresh canvas should be empty")
	}
	c.Commit(a)
	area := c.OccupiedArea()
	if area != 2500 {
		t.Fatalf("OccupiedArea() = %d, want 2500", area)
	}

	b := c.Rasterize(box(40, 40, 20, 20), 0)
	if !c.Intersects(b) {
		t.Error("overlapping shape should intersect")
	}
	c.Commit(c.Rasterize(box(100, 100, 30, 30), 2))
	if c.OccupiedArea() <= area {
		t.Error("area should grow after commit")
	}
	if !c.IsOccupied(geom.Pt(20, 20)) {
		t.Error("committed cell should be occupied")
	}
}

func TestMaxRadius(t *testing.T) {
	c := New(800, 600, color.White, false)
	if got := c.MaxRadius(); math.Abs(got-500) > 1e-9 {
		t.Errorf("MaxRadius() = %v, want 500", got)
	}
	o := New(800, 600, color.White, true)
	if got := o.MaxRadius(); math.Abs(got-500*BleedFactor) > 1e-9 {
		t.Errorf("overflow MaxRadius() = %v", got)
	}
}

func TestIntersectsAt(t *testing.T) {
	c := New(100, 100, color.White, false)
	c.Commit(c.Rasterize(box(50, 50, 10, 10), 0))
	s := c.Rasterize(box(0, 0, 10, 10), 1)
	if c.IntersectsAt(s, 0, 0) {
		t.Error("origin should be free")
	}
	if !c.IntersectsAt(s, 40, 40) {
		t.Error("dilated shape should touch the committed one")
	}
	if c.IntersectsAt(s, 39, 30) {
		t.Error("shape above the committed one should be free")
	}
}
