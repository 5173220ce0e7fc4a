// Package geom provides the world-space vector and box types shared by the
// circuit store, the hit-tester and the camera.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D vector in world or screen units.
type Vec = r2.Vec

// V is shorthand for constructing a Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns a+b.
func Add(a, b Vec) Vec { return r2.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vec) Vec { return r2.Sub(a, b) }

// Scale returns v scaled by f.
func Scale(f float64, v Vec) Vec { return r2.Scale(f, v) }

// Len returns the Euclidean length of v.
func Len(v Vec) float64 { return r2.Norm(v) }

// LenSqr returns the squared length of v.
func LenSqr(v Vec) float64 { return r2.Norm2(v) }

// Snap rounds each coordinate of v to the nearest multiple of grid.
// A non-positive grid leaves v unchanged.
func Snap(v Vec, grid float64) Vec {
	if grid <= 0 {
		return v
	}
	return Vec{
		X: math.Round(v.X/grid) * grid,
		Y: math.Round(v.Y/grid) * grid,
	}
}

// Mean returns the average of the given points, or the zero vector when
// there are none.
func Mean(points []Vec) Vec {
	if len(points) == 0 {
		return Vec{}
	}
	var sum Vec
	for _, p := range points {
		sum = r2.Add(sum, p)
	}
	return r2.Scale(1/float64(len(points)), sum)
}

// Box is an axis-aligned box stored as a center and half extents.
type Box struct {
	Center   Vec
	HalfSize Vec
}

// NewBox returns a box centred on c with the given half extents.
func NewBox(c Vec, halfW, halfH float64) Box {
	return Box{Center: c, HalfSize: Vec{X: halfW, Y: halfH}}
}

// FromCorners returns the box spanning two opposite corners in any order.
func FromCorners(a, b Vec) Box {
	return Box{
		Center:   r2.Scale(0.5, r2.Add(a, b)),
		HalfSize: Vec{X: math.Abs(b.X-a.X) / 2, Y: math.Abs(b.Y-a.Y) / 2},
	}
}

// Min returns the top-left corner.
func (b Box) Min() Vec { return r2.Sub(b.Center, b.HalfSize) }

// Max returns the bottom-right corner.
func (b Box) Max() Vec { return r2.Add(b.Center, b.HalfSize) }

// Size returns the full width and height.
func (b Box) Size() Vec { return r2.Scale(2, b.HalfSize) }

// IsZero reports whether the box has no extent at all.
func (b Box) IsZero() bool { return r2.Norm2(b.HalfSize) == 0 }

// IsTrivial reports whether the box is too small to count as a real area.
func (b Box) IsTrivial() bool { return r2.Norm2(b.HalfSize) <= 0.001 }

// Translate returns the box moved by d.
func (b Box) Translate(d Vec) Box {
	b.Center = r2.Add(b.Center, d)
	return b
}

// Intersects reports whether two closed boxes overlap or touch.
func (b Box) Intersects(o Box) bool {
	return math.Abs(b.Center.X-o.Center.X) <= b.HalfSize.X+o.HalfSize.X &&
		math.Abs(b.Center.Y-o.Center.Y) <= b.HalfSize.Y+o.HalfSize.Y
}

// Contains reports whether p lies inside the closed box.
func (b Box) Contains(p Vec) bool {
	return math.Abs(p.X-b.Center.X) <= b.HalfSize.X &&
		math.Abs(p.Y-b.Center.Y) <= b.HalfSize.Y
}
