package layout

import "github.com/matzehuels/wordmosaic/pkg/errors"

// Canvas is the drawing surface in pixels.
type Canvas struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate returns a configuration error for non-positive or oversized
// dimensions.
func (c Canvas) Validate() error {
	return errors.ValidateCanvas(c.Width, c.Height)
}

// Area returns the canvas area in square pixels.
func (c Canvas) Area() float64 { return float64(c.Width) * float64(c.Height) }

// Center returns the canvas midpoint.
func (c Canvas) Center() (x, y float64) {
	return float64(c.Width) / 2, float64(c.Height) / 2
}
