package geom

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// BoundingBox is an axis-aligned rectangle described by its top-left
// corner and extent. The zero value is the empty box and is a valid
// aggregation seed for Union.
type BoundingBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// BoxAround returns the smallest box enclosing all of the given points.
// With no points it returns the empty box.
func BoxAround(points ...Vector2D) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Right returns the X coordinate of the right edge.
func (bb BoundingBox) Right() float64 { return bb.X + bb.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (bb BoundingBox) Bottom() float64 { return bb.Y + bb.Height }

// Center returns the middle point of the box.
func (bb BoundingBox) Center() Vector2D {
	return Vector2D{X: bb.X + bb.Width/2, Y: bb.Y + bb.Height/2}
}

// IsEmpty reports whether the box has no area.
func (bb BoundingBox) IsEmpty() bool {
	return bb.Width <= 0 || bb.Height <= 0
}

// Corners returns the four corner points in clockwise order starting at
// the top-left.
func (bb BoundingBox) Corners() [4]Vector2D {
	return [4]Vector2D{
		{X: bb.X, Y: bb.Y},
		{X: bb.Right(), Y: bb.Y},
		{X: bb.Right(), Y: bb.Bottom()},
		{X: bb.X, Y: bb.Bottom()},
	}
}

// Translate returns the box shifted by (dx, dy).
func (bb BoundingBox) Translate(dx, dy float64) BoundingBox {
	return BoundingBox{X: bb.X + dx, Y: bb.Y + dy, Width: bb.Width, Height: bb.Height}
}

// Rotate returns the axis-aligned box enclosing this box after rotating
// it by angle degrees about center. For angles that are not multiples of
// 90 the result is larger than the rotated rectangle itself.
func (bb BoundingBox) Rotate(angle float64, center Vector2D) BoundingBox {
	c := bb.Corners()
	rotated := make([]Vector2D, 0, len(c))
	for _, p := range c {
		rotated = append(rotated, p.Rotate(angle, center))
	}
	return BoxAround(rotated...)
}

// Inflate returns the box grown by margin on every side. A negative
// margin shrinks the box.
func (bb BoundingBox) Inflate(margin float64) BoundingBox {
	return BoundingBox{
		X:      bb.X - margin,
		Y:      bb.Y - margin,
		Width:  bb.Width + 2*margin,
		Height: bb.Height + 2*margin,
	}
}

// Overlaps reports whether bb and other intersect after inflating both
// by margin. Boxes that merely touch do not overlap. The test is
// symmetric.
func (bb BoundingBox) Overlaps(other BoundingBox, margin float64) bool {
	a := bb.Inflate(margin)
	b := other.Inflate(margin)
	return a.X < b.Right() && a.Right() > b.X &&
		a.Y < b.Bottom() && a.Bottom() > b.Y
}

// Contains reports whether other lies entirely inside bb. Shared edges
// count as inside.
func (bb BoundingBox) Contains(other BoundingBox) bool {
	return bb.X <= other.X && bb.Y <= other.Y &&
		bb.Right() >= other.Right() && bb.Bottom() >= other.Bottom()
}

// Union returns the smallest box enclosing both bb and other. An empty
// operand yields the other operand, so the zero box works as an
// aggregation seed.
func (bb BoundingBox) Union(other BoundingBox) BoundingBox {
	if bb.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return bb
	}
	minX := math.Min(bb.X, other.X)
	minY := math.Min(bb.Y, other.Y)
	maxX := math.Max(bb.Right(), other.Right())
	maxY := math.Max(bb.Bottom(), other.Bottom())
	return BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ApproxEqual reports whether the two boxes are equal within Tolerance.
func (bb BoundingBox) ApproxEqual(other BoundingBox) bool {
	return scalar.EqualWithinAbs(bb.X, other.X, Tolerance) &&
		scalar.EqualWithinAbs(bb.Y, other.Y, Tolerance) &&
		scalar.EqualWithinAbs(bb.Width, other.Width, Tolerance) &&
		scalar.EqualWithinAbs(bb.Height, other.Height, Tolerance)
}
