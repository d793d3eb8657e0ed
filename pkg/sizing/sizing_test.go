package sizing

import (
	"testing"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/geom"
	"github.com/matzehuels/wordcloud/pkg/random"
	"github.com/matzehuels/wordcloud/pkg/typeset"
)

// boxMeasurer sizes every glyph as a 0.6 × 1 em box.
type boxMeasurer struct{ calls int }

func (m *boxMeasurer) Measure(text string, _ *fonts.Face, size float64) (*geom.Path, geom.Rect, error) {
	m.calls++
	r := geom.Rect{MinY: -size, MaxX: float64(len(text)) * size * 0.6}
	p := geom.NewPath(5)
	p.Rectangle(r)
	return p, r, nil
}

func (m *boxMeasurer) Metric(*fonts.Face) float64 { return 1.4 }

func testFace(t *testing.T) *fonts.Face {
	t.Helper()
	f, err := fonts.Lookup("bold")
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func words(m map[string]float64) []*cloud.Word { return cloud.FromMap(m) }

func TestSizesFollowFrequency(t *testing.T) {
	ws := words(map[string]float64{"cat": 10, "dog": 5, "bird": 1})
	res, err := Size(ws, Options{
		Width: 800, Height: 600,
		Face: testFace(t), Measurer: typeset.New(), RNG: random.New(42),
	})
	if err != nil {
		t.Fatal(err)
	}
	if ws[0].Text != "cat" || ws[1].Text != "dog" || ws[2].Text != "bird" {
		t.Fatalf("unexpected order %s %s %s", ws[0].Text, ws[1].Text, ws[2].Text)
	}
	if !(ws[0].Size > ws[1].Size && ws[1].Size > ws[2].Size && ws[2].Size > 0) {
		t.Errorf("sizes not strictly decreasing: %v %v %v", ws[0].Size, ws[1].Size, ws[2].Size)
	}
	if res.Grown+res.Shrunk > 2*DefaultMaxIterations {
		t.Errorf("too many iterations: %+v", res)
	}
}

func TestLimitsHoldAfterRun(t *testing.T) {
	ws := words(map[string]float64{"extraordinarily": 40, "long": 20, "words": 10, "here": 5})
	m := &boxMeasurer{}
	opts := Options{Width: 400, Height: 300, Face: testFace(t), Measurer: m, PaddingScale: 1, StrokeWidth: 1}
	if _, err := Size(ws, opts); err != nil {
		t.Fatal(err)
	}
	for _, w := range ws {
		_, box, _ := m.Measure(w.Text, nil, w.Size)
		padded := box.Width() + 2*cloud.Padding(w.Size, 1, 1)
		if padded > 400*DefaultMaxWidthFraction+1e-9 {
			t.Errorf("%s: padded width %v exceeds limit", w.Text, padded)
		}
		if box.Area() > 400*300*DefaultMaxAreaFraction {
			t.Errorf("%s: area %v exceeds limit", w.Text, box.Area())
		}
	}
}

func TestGrowthFillsMinimumArea(t *testing.T) {
	ws := words(map[string]float64{"cat": 1000, "dog": 800, "eel": 700})
	m := &boxMeasurer{}
	e, err := New(ws, Options{Width: 800, Height: 600, Face: testFace(t), Measurer: m, Jitter: -1})
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Grown == 0 || res.Scale <= res.Base {
		t.Errorf("expected growth: %+v", res)
	}
	_, box, _ := m.Measure("cat", nil, ws[0].Size)
	if box.Area() < 800*600*DefaultMinAreaFraction {
		t.Errorf("largest word area %v below minimum", box.Area())
	}
}

func TestFocusBoost(t *testing.T) {
	ws := words(map[string]float64{"alpha": 10, "omega": 10})
	ws[1].Focus = true
	if _, err := Size(ws, Options{Width: 800, Height: 600, Face: testFace(t), Measurer: &boxMeasurer{}, Jitter: -1}); err != nil {
		t.Fatal(err)
	}
	if ratio := ws[1].Size / ws[0].Size; ratio < DefaultFocusBoost-1e-9 || ratio > DefaultFocusBoost+1e-9 {
		t.Errorf("focus ratio = %v, want %v", ratio, DefaultFocusBoost)
	}
}

func TestDeterministic(t *testing.T) {
	run := func() []float64 {
		ws := words(map[string]float64{"a": 7, "bb": 7, "ccc": 3})
		if _, err := Size(ws, Options{Width: 640, Height: 480, Face: testFace(t), Measurer: &boxMeasurer{}, RNG: random.New(9)}); err != nil {
			t.Fatal(err)
		}
		return []float64{ws[0].Size, ws[1].Size, ws[2].Size}
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run differs: %v vs %v", a, b)
		}
	}
}

func TestDivergenceIsBounded(t *testing.T) {
	ws := words(map[string]float64{"wide": 3})
	m := &boxMeasurer{}
	_, err := Size(ws, Options{
		Width: 800, Height: 600, Face: testFace(t), Measurer: m,
		StrokeWidth: 500, MaxIterations: 50,
	})
	if !errors.Is(err, errors.ErrCodeSizingDiverged) {
		t.Fatalf("err = %v, want SIZING_DIVERGED", err)
	}
	if m.calls > 200 {
		t.Errorf("measured %d times, guard did not stop the loop", m.calls)
	}
}

func TestEmptyInput(t *testing.T) {
	res, err := Size(nil, Options{Width: 10, Height: 10, Face: testFace(t), Measurer: &boxMeasurer{}})
	if err != nil || res.Scale != 0 {
		t.Errorf("Size(nil) = %+v, %v", res, err)
	}
}

func TestOptionsRequired(t *testing.T) {
	if _, err := New(nil, Options{Width: 10, Height: 10}); err == nil {
		t.Error("missing measurer should fail")
	}
	if _, err := New(nil, Options{Face: testFace(t), Measurer: &boxMeasurer{}}); !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("err = %v", err)
	}
}
