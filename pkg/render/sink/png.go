package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/geom"
	"github.com/matzehuels/wordcloud/pkg/palette"
)

// DefaultPNGScale renders PNGs at twice the layout size.
const DefaultPNGScale = 2.0

// maxPNGSide bounds either side of the raster, in pixels.
const maxPNGSide = 1 << 15

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG rasterizes the placed words of l. Words without a footprint are
// skipped.
func RenderPNG(l *cloud.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: DefaultPNGScale}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = DefaultPNGScale
	}

	w := int(math.Ceil(l.Width * r.scale))
	h := int(math.Ceil(l.Height * r.scale))
	if w <= 0 || h <= 0 || w > maxPNGSide || h > maxPNGSide {
		return nil, errors.New(errors.ErrCodeRenderFailed, "png size %dx%d out of range", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)

	if bg, err := palette.Parse(l.Background); err == nil && !bg.IsTransparent() {
		dc.SetColor(bg.NRGBA())
		dc.Clear()
	}

	stroke, hasStroke := strokeColor(l)
	for _, word := range l.PlacedWords() {
		if word.Footprint == nil {
			continue
		}
		if word.Bubble != nil {
			drawPath(dc, word.Bubble, word.BubbleColor, stroke, hasStroke, l.StrokeWidth)
		}
		drawPath(dc, word.Footprint, word.Color, stroke, hasStroke, l.StrokeWidth)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

// drawPath strokes p first and fills it on top, matching the SVG
// paint-order.
func drawPath(dc *gg.Context, p *geom.Path, fillHex string, stroke palette.Color, hasStroke bool, width float64) {
	trace(dc, p)
	if hasStroke {
		dc.SetColor(stroke.NRGBA())
		dc.SetLineWidth(width)
		dc.SetLineJoin(gg.LineJoinRound)
		dc.StrokePreserve()
	}
	c, err := palette.Parse(fillHex)
	if err != nil || c.IsTransparent() {
		dc.ClearPath()
		return
	}
	dc.SetColor(c.NRGBA())
	dc.Fill()
}

func trace(dc *gg.Context, p *geom.Path) {
	dc.ClearPath()
	for _, s := range p.Segments() {
		switch s.Op {
		case geom.OpMoveTo:
			dc.MoveTo(s.Pts[0].X, s.Pts[0].Y)
		case geom.OpLineTo:
			dc.LineTo(s.Pts[0].X, s.Pts[0].Y)
		case geom.OpQuadTo:
			dc.QuadraticTo(s.Pts[0].X, s.Pts[0].Y, s.Pts[1].X, s.Pts[1].Y)
		case geom.OpCubeTo:
			dc.CubicTo(s.Pts[0].X, s.Pts[0].Y, s.Pts[1].X, s.Pts[1].Y, s.Pts[2].X, s.Pts[2].Y)
		case geom.OpClose:
			dc.ClosePath()
		}
	}
}

func strokeColor(l *cloud.Layout) (palette.Color, bool) {
	if l.StrokeWidth <= 0 {
		return palette.Color{}, false
	}
	c, err := palette.Parse(l.StrokeColor)
	if err != nil || c.IsTransparent() {
		return palette.Color{}, false
	}
	return c, true
}
