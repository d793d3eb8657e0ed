package placement

import (
	"fmt"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/geom"
	"github.com/matzehuels/wordcloud/pkg/typeset"
)

// Restore rebuilds the footprint and bubble paths of every placed word in l
// that lacks them, using the same transforms the search applied. Layouts
// read back from JSON need this before they can be drawn.
func Restore(l *cloud.Layout, m typeset.Measurer) error {
	if l.HasOutlines() {
		return nil
	}
	face, err := fonts.Lookup(l.Font)
	if err != nil {
		return err
	}
	bubble, err := ParseBubble(l.Bubble)
	if err != nil {
		return err
	}

	scratch := geom.NewPath(256)
	for _, w := range l.Words {
		if !w.Placed || w.Footprint != nil {
			continue
		}
		base, baseBox, err := m.Measure(w.Text, face, w.Size)
		if err != nil {
			return fmt.Errorf("restore %q: %w", w.Text, err)
		}

		c := baseBox.Center()
		mat := geom.Translate(-c.X, -c.Y)
		if w.Angle != 0 {
			mat = geom.Rotate(w.Angle).Multiply(mat)
		}
		base.TransformInto(scratch, mat)
		d := w.Position.Sub(scratch.Bounds().Center())

		w.Footprint = geom.NewPath(scratch.Len())
		scratch.TransformInto(w.Footprint, geom.Translate(d.X, d.Y))

		pad := cloud.Padding(w.Size, l.PaddingScale, l.StrokeWidth)
		b := geom.NewPath(16)
		if bubble.Build(b, w.Box, pad) {
			w.Bubble = b
		}
	}
	return nil
}
