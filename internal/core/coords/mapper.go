// Package coords maps pointer positions to image-relative coordinates.
// This is part of the Functional Core - no I/O, only pure functions.
package coords

import (
	"errors"
	"math"
)

// ErrMappingUnavailable is returned when the image has no usable layout yet.
var ErrMappingUnavailable = errors.New("image layout not available")

// Point is a position in viewport (display) space.
type Point struct {
	X float64
	Y float64
}

// Box is the displayed bounding box of the image in viewport space.
type Box struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Coord is a normalized image-relative position in [0,1]x[0,1].
type Coord struct {
	X float64
	Y float64
}

// Ready reports whether the box can be used for mapping.
func (b Box) Ready() bool {
	return finite(b.Left) && finite(b.Top) &&
		finite(b.Width) && finite(b.Height) &&
		b.Width > 0 && b.Height > 0
}

// ToRelative converts a pointer position into a clamped image-relative coordinate.
// Returns ErrMappingUnavailable if the box is degenerate or the pointer is not a number.
func ToRelative(p Point, box Box) (Coord, error) {
	if !box.Ready() || math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return Coord{}, ErrMappingUnavailable
	}

	return Clamp(Coord{
		X: (p.X - box.Left) / box.Width,
		Y: (p.Y - box.Top) / box.Height,
	}), nil
}

// ToAbsolute converts an image-relative coordinate back into viewport space.
func ToAbsolute(c Coord, box Box) (Point, error) {
	if !box.Ready() {
		return Point{}, ErrMappingUnavailable
	}
	c = Clamp(c)
	return Point{
		X: box.Left + c.X*box.Width,
		Y: box.Top + c.Y*box.Height,
	}, nil
}

// Clamp forces both components into [0,1]. NaN collapses to 0.
func Clamp(c Coord) Coord {
	return Coord{X: clampUnit(c.X), Y: clampUnit(c.Y)}
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
