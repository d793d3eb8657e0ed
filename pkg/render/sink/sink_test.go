package sink

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/engine"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/placement"
	"github.com/matzehuels/wordcloud/pkg/render"
)

func testLayout(t *testing.T, cfg engine.Config) *cloud.Layout {
	t.Helper()
	e, err := engine.New(cfg, engine.Options{})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	res, err := e.Run(context.Background(), cloud.FromMap(map[string]float64{
		"gopher": 30, "cloud": 20, "words": 10, "placement": 5, "tiny": 1,
	}))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	l := res.Layout()
	return &l
}

func TestRenderSVG(t *testing.T) {
	l := testLayout(t, engine.Config{Width: 400, Height: 300, Seed: 42, StrokeWidth: 1})
	out := string(RenderSVG(l, WithTitle("test & cloud"), WithWordTitles()))

	if !strings.Contains(out, "<svg") || !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Fatalf("not an svg document:\n%s", out)
	}
	if got, want := strings.Count(out, `class="word"`), len(l.PlacedWords()); got != want {
		t.Errorf("%d word groups, want %d", got, want)
	}
	if !strings.Contains(out, "fill:#ffffff") {
		t.Error("missing background")
	}
	if !strings.Contains(out, "paint-order:stroke") {
		t.Error("missing stroke")
	}
	if !strings.Contains(out, `data-word="gopher"`) {
		t.Error("missing data-word attribute")
	}
}

func TestRenderSVGTransparentBackground(t *testing.T) {
	l := testLayout(t, engine.Config{Width: 400, Height: 300, Seed: 1, Background: "transparent"})
	out := string(RenderSVG(l))
	if strings.Contains(out, "<rect") {
		t.Error("transparent background should not be painted")
	}
}

func TestRenderSVGBubbles(t *testing.T) {
	l := testLayout(t, engine.Config{Width: 400, Height: 300, Seed: 3, Bubble: placement.BubbleOval})
	out := string(RenderSVG(l))
	// One path for the bubble and one for the word.
	if got, want := strings.Count(out, "<path"), 2*len(l.PlacedWords()); got != want {
		t.Errorf("%d paths, want %d", got, want)
	}
}

func TestRenderPNG(t *testing.T) {
	l := testLayout(t, engine.Config{Width: 200, Height: 100, Seed: 42})
	data, err := RenderPNG(l, WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("size = %v, want 200x100", b)
	}

	inked := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || bl != 0xffff {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Error("png has no words drawn")
	}
}

func TestRenderPNGScale(t *testing.T) {
	l := testLayout(t, engine.Config{Width: 120, Height: 80, Seed: 42})
	data, err := RenderPNG(l)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 240 || cfg.Height != 160 {
		t.Errorf("size = %dx%d, want 240x160", cfg.Width, cfg.Height)
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.HasConverter() {
		t.Skip("rsvg-convert not installed")
	}
	l := testLayout(t, engine.Config{Width: 200, Height: 100, Seed: 42})
	data, err := RenderPDF(context.Background(), l)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestJSONRoundTripRestoresOutlines(t *testing.T) {
	l := testLayout(t, engine.Config{Width: 400, Height: 300, Seed: 9, Rotation: placement.RotateEither, Bubble: placement.BubbleCircle})
	data, err := Render(context.Background(), FormatJSON, l, Options{})
	if err != nil {
		t.Fatalf("Render json: %v", err)
	}
	back, err := cloud.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if back.HasOutlines() {
		t.Fatal("decoded layout should not carry outlines")
	}

	if _, err := Render(context.Background(), FormatSVG, &back, Options{}); err != nil {
		t.Fatalf("Render svg: %v", err)
	}
	if !back.HasOutlines() {
		t.Fatal("outlines not rebuilt")
	}

	orig := l.PlacedWords()
	restored := back.PlacedWords()
	if len(orig) != len(restored) {
		t.Fatalf("%d placed words, want %d", len(restored), len(orig))
	}
	for i := range orig {
		a, b := orig[i].Footprint.Bounds(), restored[i].Footprint.Bounds()
		if math.Abs(a.MinX-b.MinX) > 0.01 || math.Abs(a.MaxY-b.MaxY) > 0.01 {
			t.Errorf("%s footprint %v, restored %v", orig[i].Text, a, b)
		}
		if (orig[i].Bubble == nil) != (restored[i].Bubble == nil) {
			t.Errorf("%s bubble mismatch", orig[i].Text)
		}
	}
}

func TestFor(t *testing.T) {
	for _, f := range Formats() {
		w, err := For(f, Options{})
		if err != nil {
			t.Errorf("For(%q): %v", f, err)
			continue
		}
		if w.Format() != f {
			t.Errorf("For(%q).Format() = %q", f, w.Format())
		}
	}
	if _, err := For("bmp", Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("For(bmp) err = %v, want INVALID_FORMAT", err)
	}
	if IsFormat("SVG") {
		t.Error("format names are case-sensitive")
	}
}
