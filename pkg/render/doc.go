// Package render turns a finished cloud into files.
//
// # Overview
//
// Rendering happens after layout, from a [cloud.Layout]. The layout already
// fixes every word's position, angle and colors, so rendering never touches
// the placement engine and the same layout always yields the same image.
//
// The formats live in the [sink] subpackage:
//
//   - SVG: glyph outlines as paths, written with svgo
//   - PNG: rasterized with fogleman/gg
//   - PDF: the SVG converted by rsvg-convert ([ToPDF])
//   - JSON: the layout itself
//
// Every format implements [Writer]:
//
//	w, err := sink.For("svg", sink.Options{})
//	if err != nil {
//		return err
//	}
//	err = w.Write(ctx, f, &layout)
//
// Layouts read back from JSON carry no outlines; writers that draw call
// placement.Restore first.
//
// [sink]: github.com/matzehuels/wordcloud/pkg/render/sink
package render

import (
	"context"
	"io"

	"github.com/matzehuels/wordcloud/pkg/cloud"
)

// Writer serializes a layout in one output format.
type Writer interface {
	// Format is the short name of the format, e.g. "svg".
	Format() string
	// Write encodes l into w. Drawing formats rebuild missing outlines of
	// l in place; nothing else in l changes.
	Write(ctx context.Context, w io.Writer, l *cloud.Layout) error
}
