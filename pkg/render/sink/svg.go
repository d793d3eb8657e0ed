package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/palette"
)

const wordCSS = `
    .word { transition: opacity 0.2s ease; }
    svg:hover .word { opacity: 0.6; }
    svg:hover .word:hover { opacity: 1; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title       string
	interactive bool
	titles      bool
}

// WithTitle sets the document title.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithHover dims the other words while one is hovered.
func WithHover() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithWordTitles adds a <title> to every word so viewers show it as a tooltip.
func WithWordTitles() SVGOption { return func(r *svgRenderer) { r.titles = true } }

// RenderSVG draws the placed words of l as filled glyph outlines. Words
// without a footprint are skipped; see [placement.Restore].
//
// [placement.Restore]: github.com/matzehuels/wordcloud/pkg/placement.Restore
func RenderSVG(l *cloud.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	w, h := int(math.Round(l.Width)), int(math.Round(l.Height))
	canvas := svg.New(&buf)
	canvas.Startview(w, h, 0, 0, w, h)
	if r.title != "" {
		canvas.Title(r.title)
	}
	if r.interactive {
		canvas.Style("text/css", wordCSS)
	}

	if bg, err := palette.Parse(l.Background); err == nil && !bg.IsTransparent() {
		canvas.Rect(0, 0, w, h, fill(bg))
	}

	stroke := strokeStyle(l)
	for _, word := range l.PlacedWords() {
		if word.Footprint == nil {
			continue
		}
		canvas.Group(`class="word"`, fmt.Sprintf(`data-word="%s"`, html.EscapeString(word.Text)))
		if r.titles {
			canvas.Title(word.Text)
		}
		if word.Bubble != nil {
			canvas.Path(word.Bubble.SVG(), colorStyle(word.BubbleColor)+stroke)
		}
		canvas.Path(word.Footprint.SVG(), colorStyle(word.Color)+stroke)
		canvas.Gend()
	}

	canvas.End()
	return buf.Bytes()
}

// fill returns an SVG fill declaration. Alpha goes into fill-opacity so
// renderers without #rrggbbaa support still draw it.
func fill(c palette.Color) string {
	s := "fill:" + palette.Opaque(c.Color).Hex()
	if c.Alpha < 1 {
		s += fmt.Sprintf(";fill-opacity:%.3g", c.Alpha)
	}
	return s
}

func colorStyle(hex string) string {
	c, err := palette.Parse(hex)
	if err != nil || c.IsTransparent() {
		return "fill:none"
	}
	return fill(c)
}

// strokeStyle is the stroke shared by every word. paint-order keeps the fill
// on top so the stroke only thickens the outline.
func strokeStyle(l *cloud.Layout) string {
	c, ok := strokeColor(l)
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, ";stroke:%s;stroke-width:%.3g;stroke-linejoin:round;paint-order:stroke", palette.Opaque(c.Color).Hex(), l.StrokeWidth)
	if c.Alpha < 1 {
		fmt.Fprintf(&b, ";stroke-opacity:%.3g", c.Alpha)
	}
	return b.String()
}
