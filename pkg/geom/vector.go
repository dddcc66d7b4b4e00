// Package geom provides the 2D primitives used by the placement engine:
// vectors and rotation-aware axis-aligned bounding boxes. All coordinates
// are millimeters in the KiCad board frame (Y grows downward).
package geom

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Tolerance is the absolute tolerance used for approximate coordinate
// comparisons, in millimeters.
const Tolerance = 1e-6

// Vector2D is a point or displacement in board coordinates.
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the component-wise sum v + o.
func (v Vector2D) Add(o Vector2D) Vector2D {
	return Vector2D{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference v - o.
func (v Vector2D) Sub(o Vector2D) Vector2D {
	return Vector2D{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by the scalar f.
func (v Vector2D) Scale(f float64) Vector2D {
	return Vector2D{X: v.X * f, Y: v.Y * f}
}

// Distance returns the Euclidean distance between v and o.
func (v Vector2D) Distance(o Vector2D) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// ManhattanDistance returns the L1 distance between v and o.
func (v Vector2D) ManhattanDistance(o Vector2D) float64 {
	return math.Abs(v.X-o.X) + math.Abs(v.Y-o.Y)
}

// Rotate returns v rotated by angle degrees about center in the board
// frame: with Y growing downward, a positive angle turns
// counter-clockwise on screen, so 90 degrees maps (x, y) to (y, -x).
// The receiver is not modified.
func (v Vector2D) Rotate(angle float64, center Vector2D) Vector2D {
	rad := angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx := v.X - center.X
	dy := v.Y - center.Y
	return Vector2D{
		X: center.X + dx*cos + dy*sin,
		Y: center.Y - dx*sin + dy*cos,
	}
}

// ApproxEqual reports whether v and o are equal within Tolerance.
func (v Vector2D) ApproxEqual(o Vector2D) bool {
	return scalar.EqualWithinAbs(v.X, o.X, Tolerance) &&
		scalar.EqualWithinAbs(v.Y, o.Y, Tolerance)
}
