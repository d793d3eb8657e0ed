package region

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/matzehuels/wordcloud/pkg/geom"
)

// Rasterizer converts paths into masks. It keeps its scratch buffers between
// calls, so one Rasterizer should be reused for a whole placement pass.
// It is not safe for concurrent use.
type Rasterizer struct {
	z   *vector.Rasterizer
	pix []byte
}

// NewRasterizer returns a Rasterizer with empty scratch buffers.
func NewRasterizer() *Rasterizer {
	z := vector.NewRasterizer(0, 0)
	z.DrawOp = draw.Src
	return &Rasterizer{z: z}
}

// Mask rasterizes the filled interior of p. Any cell with non-zero coverage
// counts as covered.
func (rz *Rasterizer) Mask(p *geom.Path) *Mask {
	b := p.Bounds()
	if b.Empty() {
		return &Mask{}
	}
	x0, y0 := floor(b.MinX), floor(b.MinY)
	w, h := int(math.Ceil(b.MaxX))-x0, int(math.Ceil(b.MaxY))-y0
	if w <= 0 || h <= 0 {
		return &Mask{}
	}

	rz.z.Reset(w, h)
	rz.trace(p, float64(x0), float64(y0))

	if cap(rz.pix) < w*h {
		rz.pix = make([]byte, w*h)
	}
	dst := &image.Alpha{Pix: rz.pix[:w*h], Stride: w, Rect: image.Rect(0, 0, w, h)}
	rz.z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	m := &Mask{y0: y0, rows: make([][]span, h)}
	for y := 0; y < h; y++ {
		line := dst.Pix[y*w : (y+1)*w]
		var row []span
		start := -1
		for x, a := range line {
			switch {
			case a > 0 && start < 0:
				start = x
			case a == 0 && start >= 0:
				row = append(row, span{x0 + start, x0 + x})
				start = -1
			}
		}
		if start >= 0 {
			row = append(row, span{x0 + start, x0 + w})
		}
		m.rows[y] = row
	}
	return m
}

// trace feeds p to the vector rasterizer, closing every contour.
func (rz *Rasterizer) trace(p *geom.Path, ox, oy float64) {
	pt := func(q geom.Point) (float32, float32) {
		return float32(q.X - ox), float32(q.Y - oy)
	}
	open := false
	for _, s := range p.Segments() {
		switch s.Op {
		case geom.OpMoveTo:
			if open {
				rz.z.ClosePath()
			}
			rz.z.MoveTo(pt(s.Pts[0]))
			open = true
		case geom.OpLineTo:
			rz.z.LineTo(pt(s.Pts[0]))
		case geom.OpQuadTo:
			bx, by := pt(s.Pts[0])
			cx, cy := pt(s.Pts[1])
			rz.z.QuadTo(bx, by, cx, cy)
		case geom.OpCubeTo:
			bx, by := pt(s.Pts[0])
			cx, cy := pt(s.Pts[1])
			dx, dy := pt(s.Pts[2])
			rz.z.CubeTo(bx, by, cx, cy, dx, dy)
		case geom.OpClose:
			rz.z.ClosePath()
			open = false
		}
	}
	if open {
		rz.z.ClosePath()
	}
}

func floor(v float64) int { return int(math.Floor(v)) }
