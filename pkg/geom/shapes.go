package geom

// kappa places cubic control points so four arcs approximate a quarter ellipse.
const kappa = 0.5522847498

// Rectangle appends a closed rectangle covering r.
func (p *Path) Rectangle(r Rect) {
	p.MoveTo(r.MinX, r.MinY)
	p.LineTo(r.MaxX, r.MinY)
	p.LineTo(r.MaxX, r.MaxY)
	p.LineTo(r.MinX, r.MaxY)
	p.Close()
}

// Ellipse appends a closed ellipse centered on c with radii rx and ry.
func (p *Path) Ellipse(c Point, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(c.X+rx, c.Y)
	p.CubeTo(c.X+rx, c.Y+ky, c.X+kx, c.Y+ry, c.X, c.Y+ry)
	p.CubeTo(c.X-kx, c.Y+ry, c.X-rx, c.Y+ky, c.X-rx, c.Y)
	p.CubeTo(c.X-rx, c.Y-ky, c.X-kx, c.Y-ry, c.X, c.Y-ry)
	p.CubeTo(c.X+kx, c.Y-ry, c.X+rx, c.Y-ky, c.X+rx, c.Y)
	p.Close()
}
