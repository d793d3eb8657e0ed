package sink

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/placement"
	"github.com/matzehuels/wordcloud/pkg/render"
	"github.com/matzehuels/wordcloud/pkg/typeset"
)

// Output format names.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Formats lists the supported formats.
func Formats() []string { return []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON} }

// Options configures the writers returned by [For].
type Options struct {
	Title    string
	Hover    bool
	PNGScale float64

	// Measurer rebuilds missing outlines. Defaults to a shared typesetter.
	Measurer typeset.Measurer
}

var defaultMeasurer = typeset.New()

// For returns the writer for format.
func For(format string, opts Options) (render.Writer, error) {
	if opts.Measurer == nil {
		opts.Measurer = defaultMeasurer
	}
	switch format {
	case FormatSVG:
		return svgWriter{opts}, nil
	case FormatPNG:
		return pngWriter{opts}, nil
	case FormatPDF:
		return pdfWriter{opts}, nil
	case FormatJSON:
		return jsonWriter{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat,
		"invalid format: %q (must be one of: %s)", format, strings.Join(Formats(), ", "))
}

// IsFormat reports whether format is supported.
func IsFormat(format string) bool { return slices.Contains(Formats(), format) }

// Render encodes l in format and returns the bytes.
func Render(ctx context.Context, format string, l *cloud.Layout, opts Options) ([]byte, error) {
	w, err := For(format, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := w.Write(ctx, &buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o Options) svgOptions() []SVGOption {
	opts := []SVGOption{WithWordTitles()}
	if o.Title != "" {
		opts = append(opts, WithTitle(o.Title))
	}
	if o.Hover {
		opts = append(opts, WithHover())
	}
	return opts
}

func outlines(l *cloud.Layout, m typeset.Measurer) error {
	if err := placement.Restore(l, m); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "rebuild outlines")
	}
	return nil
}

func write(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write output")
	}
	return nil
}

type svgWriter struct{ opts Options }

func (svgWriter) Format() string { return FormatSVG }

func (s svgWriter) Write(_ context.Context, w io.Writer, l *cloud.Layout) error {
	if err := outlines(l, s.opts.Measurer); err != nil {
		return err
	}
	return write(w, RenderSVG(l, s.opts.svgOptions()...))
}

type pngWriter struct{ opts Options }

func (pngWriter) Format() string { return FormatPNG }

func (p pngWriter) Write(_ context.Context, w io.Writer, l *cloud.Layout) error {
	if err := outlines(l, p.opts.Measurer); err != nil {
		return err
	}
	data, err := RenderPNG(l, WithScale(p.opts.PNGScale))
	if err != nil {
		return err
	}
	return write(w, data)
}

type pdfWriter struct{ opts Options }

func (pdfWriter) Format() string { return FormatPDF }

func (p pdfWriter) Write(ctx context.Context, w io.Writer, l *cloud.Layout) error {
	if err := outlines(l, p.opts.Measurer); err != nil {
		return err
	}
	data, err := RenderPDF(ctx, l, WithPDFSVGOptions(p.opts.svgOptions()...))
	if err != nil {
		return err
	}
	return write(w, data)
}

type jsonWriter struct{}

func (jsonWriter) Format() string { return FormatJSON }

func (jsonWriter) Write(_ context.Context, w io.Writer, l *cloud.Layout) error {
	data, err := RenderJSON(l)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "encode layout")
	}
	return write(w, data)
}
