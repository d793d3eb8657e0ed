// Package typeset turns words into outline paths.
//
// A [Measurer] is the text-measurement collaborator of the placement engine:
// given a word, a face and a size it returns the word's drawn outline and a
// tight bounding rectangle. Outlines use the font's own coordinate system,
// with the baseline at y=0, the pen starting at x=0, and Y growing downwards.
package typeset

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/geom"
)

// ReferenceGlyph is the glyph whose height normalizes font sizes across faces.
const ReferenceGlyph = 'X'

// ErrEmptyText is returned when a word has no visible glyphs.
var ErrEmptyText = errors.New("typeset: empty text")

// Measurer measures words.
type Measurer interface {
	// Measure returns the closed outline of text set in face at size, and its
	// tight bounding rectangle.
	Measure(text string, face *fonts.Face, size float64) (*geom.Path, geom.Rect, error)
	// Metric returns the em size divided by the height of [ReferenceGlyph].
	// Faces with small capitals get a larger metric so that equal sizes look
	// equally tall.
	Metric(face *fonts.Face) float64
}

// Typesetter is the sfnt-backed [Measurer]. It is safe for concurrent use.
type Typesetter struct {
	mu  sync.Mutex
	buf sfnt.Buffer

	metrics map[string]float64
}

var _ Measurer = (*Typesetter)(nil)

// New creates a Typesetter.
func New() *Typesetter {
	return &Typesetter{metrics: make(map[string]float64)}
}

// Measure implements [Measurer].
func (t *Typesetter) Measure(text string, face *fonts.Face, size float64) (*geom.Path, geom.Rect, error) {
	if strings.TrimSpace(text) == "" {
		return nil, geom.Rect{}, ErrEmptyText
	}
	if size <= 0 {
		return nil, geom.Rect{}, fmt.Errorf("typeset: invalid size %v", size)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	f := face.Font
	ppem := toFixed(size)
	p := geom.NewPath(len(text) * 16)

	var (
		pen  fixed.Int26_6
		prev sfnt.GlyphIndex
	)
	for i, r := range []rune(text) {
		gi, err := f.GlyphIndex(&t.buf, r)
		if err != nil {
			return nil, geom.Rect{}, fmt.Errorf("typeset: glyph for %q: %w", r, err)
		}
		if i > 0 {
			// Most faces carry no kern table; ErrNotFound is the common case.
			if k, err := f.Kern(&t.buf, prev, gi, ppem, font.HintingNone); err == nil {
				pen += k
			}
		}
		segs, err := f.LoadGlyph(&t.buf, gi, ppem, nil)
		if err != nil {
			return nil, geom.Rect{}, fmt.Errorf("typeset: load glyph %q: %w", r, err)
		}
		appendSegments(p, segs, fromFixed(pen))

		adv, err := f.GlyphAdvance(&t.buf, gi, ppem, font.HintingNone)
		if err != nil {
			return nil, geom.Rect{}, fmt.Errorf("typeset: advance %q: %w", r, err)
		}
		pen += adv
		prev = gi
	}

	if p.Len() == 0 {
		return nil, geom.Rect{}, ErrEmptyText
	}
	return p, p.Bounds(), nil
}

// Metric implements [Measurer]. Results are cached per face.
func (t *Typesetter) Metric(face *fonts.Face) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if m, ok := t.metrics[face.Name]; ok {
		return m
	}
	m := 1.0
	const em = 1000
	gi, err := face.Font.GlyphIndex(&t.buf, ReferenceGlyph)
	if err == nil && gi != 0 {
		if b, _, err := face.Font.GlyphBounds(&t.buf, gi, toFixed(em), font.HintingNone); err == nil {
			if h := fromFixed(b.Max.Y - b.Min.Y); h > 0 {
				m = em / h
			}
		}
	}
	t.metrics[face.Name] = m
	return m
}

// appendSegments copies glyph segments into p shifted right by dx. Each
// contour is closed explicitly.
func appendSegments(p *geom.Path, segs sfnt.Segments, dx float64) {
	open := false
	for _, s := range segs {
		a := s.Args
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			p.MoveTo(fromFixed(a[0].X)+dx, fromFixed(a[0].Y))
			open = true
		case sfnt.SegmentOpLineTo:
			p.LineTo(fromFixed(a[0].X)+dx, fromFixed(a[0].Y))
		case sfnt.SegmentOpQuadTo:
			p.QuadTo(fromFixed(a[0].X)+dx, fromFixed(a[0].Y), fromFixed(a[1].X)+dx, fromFixed(a[1].Y))
		case sfnt.SegmentOpCubeTo:
			p.CubeTo(fromFixed(a[0].X)+dx, fromFixed(a[0].Y),
				fromFixed(a[1].X)+dx, fromFixed(a[1].Y),
				fromFixed(a[2].X)+dx, fromFixed(a[2].Y))
		}
	}
	if open {
		p.Close()
	}
}

func toFixed(v float64) fixed.Int26_6   { return fixed.Int26_6(v * 64) }
func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }
