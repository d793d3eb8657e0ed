// Package region implements the occupied-space bookkeeping used for collision
// detection.
//
// Shapes are rasterized onto a unit grid (one cell per canvas unit) and stored
// as horizontal runs ("spans") per row. A [Region] only ever grows: [Region.Union]
// merges a [Mask] into it, and there is no removal. Collision tests compare
// span lists row by row, so their cost is proportional to the height of the
// candidate shape rather than to the number of words already placed.
//
// The package exposes three set operations and nothing of its internal layout:
//
//	occ := region.New(image.Rect(0, 0, 800, 600))
//	m := rz.Mask(path)
//	if !occ.Intersects(m) {
//	    occ.Union(m)
//	}
//	occ.Contains(geom.Pt(400, 300))
package region
