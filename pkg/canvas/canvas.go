// Package canvas holds the spatial state of one rendering pass: the viewport,
// the clip boundary words must stay inside, and the occupied space left by
// words that have already been accepted.
package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/matzehuels/wordcloud/pkg/geom"
	"github.com/matzehuels/wordcloud/pkg/region"
)

// BleedFactor is how much larger than the viewport the clip boundary is, per
// axis, when overflow is allowed.
const BleedFactor = 1.25

// Canvas is the geometric source of truth for "is this position free".
//
// The occupied region only grows during a pass. Callers must only Commit
// shapes that the placement search accepted.
type Canvas struct {
	viewport   geom.Rect
	clip       geom.Rect
	overflow   bool
	background color.Color
	occupied   *region.Region
	raster     *region.Rasterizer
}

// New creates a canvas of the given size. When allowOverflow is true the clip
// boundary is the viewport scaled by [BleedFactor] around its center.
func New(width, height float64, background color.Color, allowOverflow bool) *Canvas {
	vp := geom.Rect{MaxX: width, MaxY: height}
	clip := vp
	if allowOverflow {
		clip = vp.Inflate(width*(BleedFactor-1)/2, height*(BleedFactor-1)/2)
	}
	grid := image.Rect(
		int(math.Floor(clip.MinX)), int(math.Floor(clip.MinY)),
		int(math.Ceil(clip.MaxX)), int(math.Ceil(clip.MaxY)),
	)
	return &Canvas{
		viewport:   vp,
		clip:       clip,
		overflow:   allowOverflow,
		background: background,
		occupied:   region.New(grid),
		raster:     region.NewRasterizer(),
	}
}

func (c *Canvas) Viewport() geom.Rect             { return c.viewport }
func (c *Canvas) Clip() geom.Rect                 { return c.clip }
func (c *Canvas) Background() color.Color         { return c.background }
func (c *Canvas) Center() geom.Point              { return c.viewport.Center() }
func (c *Canvas) OccupiedArea() int               { return c.occupied.Area() }
func (c *Canvas) OccupiedExtent() image.Rectangle { return c.occupied.Extent() }

// Aspect returns width / height of the viewport.
func (c *Canvas) Aspect() float64 {
	if c.viewport.Height() == 0 {
		return 1
	}
	return c.viewport.Width() / c.viewport.Height()
}

// Contains reports whether p lies strictly inside the clip boundary.
func (c *Canvas) Contains(p geom.Point) bool {
	return c.clip.ContainsPoint(p)
}

// FallsOutside reports whether any edge of r crosses the clip boundary.
func (c *Canvas) FallsOutside(r geom.Rect) bool {
	return r.MinX < c.clip.MinX || r.MinY < c.clip.MinY ||
		r.MaxX > c.clip.MaxX || r.MaxY > c.clip.MaxY
}

// Shape is a rasterized candidate, ready for Intersects and Commit.
type Shape = region.Mask

// Rasterize converts a path to a Shape, grown by margin cells on every side.
func (c *Canvas) Rasterize(p *geom.Path, margin int) *Shape {
	return c.raster.Mask(p).Dilate(margin)
}

// Intersects reports whether s overlaps the occupied space.
func (c *Canvas) Intersects(s *Shape) bool {
	return c.occupied.Intersects(s)
}

// IntersectsAt is Intersects for s moved by whole cells.
func (c *Canvas) IntersectsAt(s *Shape, dx, dy int) bool {
	return c.occupied.IntersectsAt(s, dx, dy)
}

// Commit unions s into the occupied space. It cannot be undone.
func (c *Canvas) Commit(s *Shape) {
	c.occupied.Union(s)
}

// IsOccupied reports whether the cell under p is covered by a committed shape.
func (c *Canvas) IsOccupied(p geom.Point) bool {
	return c.occupied.Contains(p)
}

// MaxRadius is the hard ceiling of the radial search: the distance from the
// viewport origin to its center, scaled by the bleed factor when overflow is
// allowed.
func (c *Canvas) MaxRadius() float64 {
	r := c.viewport.Center().Length()
	if c.overflow {
		r *= BleedFactor
	}
	return r
}
