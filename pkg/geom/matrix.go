package geom

import "math"

// Matrix is a 2D affine transform in row-major order:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate returns a translation by (x, y).
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Rotate returns a rotation by deg degrees. With Y pointing down, positive
// angles turn clockwise on screen, matching SVG's rotate().
func Rotate(deg float64) Matrix {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Matrix{A: cos, B: -sin, D: sin, E: cos}
}

// RotateAbout returns a rotation by deg degrees around c.
func RotateAbout(deg float64, c Point) Matrix {
	return Translate(c.X, c.Y).Multiply(Rotate(deg)).Multiply(Translate(-c.X, -c.Y))
}

// Multiply returns m * o, which applies o first and then m.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

// Apply transforms p.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}
