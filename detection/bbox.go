package detection

import (
	"fmt"
	"math"
)

// BoundingBox is a rectangle in normalized [0,1] image space.
// All geometric reasoning in the pipeline happens on normalized boxes so
// that thresholds are independent of image resolution.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Normalize converts a pixel box into normalized image space.
func (p PixelBox) Normalize(dims ImageDimensions) (BoundingBox, error) {
	if err := dims.Validate(); err != nil {
		return BoundingBox{}, err
	}
	b := BoundingBox{
		X:      p.X / float64(dims.Width),
		Y:      p.Y / float64(dims.Height),
		Width:  p.Width / float64(dims.Width),
		Height: p.Height / float64(dims.Height),
	}
	if err := b.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return b, nil
}

// Validate checks that the box has positive area and lies within [0,1]
// image space. A small epsilon absorbs floating-point drift from the
// pixel-to-normalized conversion.
func (b BoundingBox) Validate() error {
	const eps = 1e-9
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("bounding box must have positive width and height, got %gx%g", b.Width, b.Height)
	}
	if b.X < -eps || b.Y < -eps {
		return fmt.Errorf("bounding box origin (%g, %g) is outside image space", b.X, b.Y)
	}
	if b.X+b.Width > 1+eps || b.Y+b.Height > 1+eps {
		return fmt.Errorf("bounding box extends outside image space: (%g, %g) + %gx%g", b.X, b.Y, b.Width, b.Height)
	}
	return nil
}

// Center returns the center point of the box.
func (b BoundingBox) Center() (x, y float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Area returns the area of the box.
func (b BoundingBox) Area() float64 {
	return b.Width * b.Height
}

// IoU computes the Intersection-over-Union of two boxes. Returns 0 when
// the boxes do not overlap.
func (b BoundingBox) IoU(other BoundingBox) float64 {
	ix := math.Max(b.X, other.X)
	iy := math.Max(b.Y, other.Y)
	ix2 := math.Min(b.X+b.Width, other.X+other.Width)
	iy2 := math.Min(b.Y+b.Height, other.Y+other.Height)

	if ix2 <= ix || iy2 <= iy {
		return 0
	}

	intersection := (ix2 - ix) * (iy2 - iy)
	union := b.Area() + other.Area() - intersection
	if union <= 0 {
		return 0
	}
	return intersection / union
}

// CenterDistance returns the Euclidean distance between the centers of two
// boxes in normalized image space. The maximum possible value is the image
// diagonal, math.Sqrt2.
func (b BoundingBox) CenterDistance(other BoundingBox) float64 {
	x1, y1 := b.Center()
	x2, y2 := other.Center()
	return math.Hypot(x2-x1, y2-y1)
}
