package layout

import "math"

// spiral yields points on an archimedean spiral around (cx, cy), stretched
// horizontally by aspect. The radius grows by one cell per turn and
// consecutive points are about one cell apart along the curve.
type spiral struct {
	cx, cy float64
	aspect float64
	b      float64 // radial growth per radian
	cell   float64
	t      float64
}

func newSpiral(canvas Canvas, cell float64) *spiral {
	cx, cy := canvas.Center()
	return &spiral{
		cx:     cx,
		cy:     cy,
		aspect: float64(canvas.Width) / float64(canvas.Height),
		b:      cell / (2 * math.Pi),
		cell:   cell,
	}
}

// next returns the next point and its (unstretched) radius. The first point
// is the exact center.
func (s *spiral) next() (x, y, r float64) {
	r = s.b * s.t
	x = s.cx + s.aspect*r*math.Cos(s.t)
	y = s.cy + r*math.Sin(s.t)
	s.t += s.cell / max(r, s.cell)
	return x, y, r
}

// reach is the radius at which the stretched spiral has covered every
// canvas corner.
func reach(canvas Canvas) float64 {
	return float64(canvas.Height) / math.Sqrt2
}
