package layout

// Box is an axis-aligned rectangle in y-down canvas coordinates.
type Box struct {
	Left, Top     float64
	Right, Bottom float64
}

// Width returns the horizontal span of the box.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the box.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center point of the box.
func (b Box) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the box.
func (b Box) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Intersects reports whether the interiors of b and o overlap. Boxes that
// only share an edge do not intersect.
func (b Box) Intersects(o Box) bool {
	return b.Left < o.Right && o.Left < b.Right &&
		b.Top < o.Bottom && o.Top < b.Bottom
}

// Within reports whether b lies inside the canvas.
func (b Box) Within(c Canvas) bool {
	return b.Left >= 0 && b.Top >= 0 &&
		b.Right <= float64(c.Width) && b.Bottom <= float64(c.Height)
}
