package radial

import (
	"math"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/geom"
	"github.com/matzehuels/wordcloud/pkg/random"
)

func drain(s *Source) []geom.Point {
	var pts []geom.Point
	for {
		p, ok := s.Next()
		if !ok {
			return pts
		}
		pts = append(pts, p)
	}
}

func TestZeroRadiusYieldsCenter(t *testing.T) {
	c := geom.Pt(400, 300)
	pts := drain(New(c, 0, DefaultStep, 1.5, random.New(1)))
	if len(pts) != 1 || pts[0] != c {
		t.Fatalf("got %v, want [%v]", pts, c)
	}
}

func TestNoDuplicatePoints(t *testing.T) {
	rng := random.New(7)
	for _, r := range []float64{1, 5, 17.5, 100, 480} {
		pts := drain(New(geom.Pt(400, 300), r, DefaultStep, 4.0/3, rng))
		if len(pts) < 4 {
			t.Errorf("r=%v: only %d points", r, len(pts))
		}
		for i := range pts {
			for j := i + 1; j < len(pts); j++ {
				if pts[i].Near(pts[j], 1e-6) {
					t.Fatalf("r=%v: points %d and %d coincide at %v", r, i, j, pts[i])
				}
			}
		}
	}
}

func TestSweepCoversFullTurn(t *testing.T) {
	rng := random.New(42)
	for i := 0; i < 20; i++ {
		s := New(geom.Point{}, 50, DefaultStep, 1, rng)
		span := s.End() - s.Start()
		if math.Abs(math.Abs(span)-360) > 1e-9 {
			t.Fatalf("span = %v, want ±360", span)
		}
		if math.Mod(s.Start(), 90) != 0 {
			t.Fatalf("start %v is not a quadrant", s.Start())
		}
		// The closing angle maps back to the first point.
		first, _ := s.Next()
		closing := geom.Polar(s.End(), 50)
		if !first.Near(closing, 1e-9) {
			t.Fatalf("closing point %v != first %v", closing, first)
		}
	}
}

func TestIncrementShrinksWithRadius(t *testing.T) {
	rng := random.New(3)
	small := New(geom.Point{}, 4, DefaultStep, 1, rng)
	large := New(geom.Point{}, 400, DefaultStep, 1, rng)
	if large.Increment() >= small.Increment() {
		t.Errorf("increment at r=400 (%v) should be finer than at r=4 (%v)",
			large.Increment(), small.Increment())
	}
}

func TestPointsLieOnEllipse(t *testing.T) {
	const r, aspect = 120.0, 2.0
	c := geom.Pt(10, 20)
	for _, p := range drain(New(c, r, DefaultStep, aspect, random.New(9))) {
		dx, dy := (p.X-c.X)/(r*aspect), (p.Y-c.Y)/r
		if d := dx*dx + dy*dy; math.Abs(d-1) > 1e-9 {
			t.Fatalf("point %v off the ellipse (%v)", p, d)
		}
	}
}
