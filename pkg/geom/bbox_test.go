package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxAround(t *testing.T) {
	bb := BoxAround(
		Vector2D{X: 2, Y: 5},
		Vector2D{X: -1, Y: 3},
		Vector2D{X: 4, Y: 4},
	)
	assert.True(t, bb.ApproxEqual(BoundingBox{X: -1, Y: 3, Width: 5, Height: 2}))

	assert.True(t, BoxAround().IsEmpty())
}

func TestBoundingBoxTranslate(t *testing.T) {
	bb := BoundingBox{X: 1, Y: 2, Width: 3, Height: 4}
	got := bb.Translate(-1, 2)
	assert.True(t, got.ApproxEqual(BoundingBox{X: 0, Y: 4, Width: 3, Height: 4}))
	// pure: receiver untouched
	assert.True(t, bb.ApproxEqual(BoundingBox{X: 1, Y: 2, Width: 3, Height: 4}))
}

func TestBoundingBoxRotate(t *testing.T) {
	bb := BoundingBox{X: 0, Y: 0, Width: 4, Height: 2}

	t.Run("quarter turn swaps extents", func(t *testing.T) {
		got := bb.Rotate(90, Vector2D{})
		assert.InDelta(t, 2, got.Width, Tolerance)
		assert.InDelta(t, 4, got.Height, Tolerance)
	})

	t.Run("half turn keeps extents", func(t *testing.T) {
		got := bb.Rotate(180, bb.Center())
		assert.True(t, got.ApproxEqual(bb), "got %+v", got)
	})

	t.Run("diagonal rotation grows the box", func(t *testing.T) {
		got := bb.Rotate(45, bb.Center())
		assert.Greater(t, got.Width, bb.Width)
		assert.Greater(t, got.Height, bb.Height)
	})

	t.Run("round trip at right angles", func(t *testing.T) {
		for _, angle := range []float64{0, 90, 180, 270} {
			got := bb.Rotate(angle, Vector2D{X: 1, Y: 1}).Rotate(-angle, Vector2D{X: 1, Y: 1})
			assert.True(t, got.ApproxEqual(bb), "angle %v: got %+v", angle, got)
		}
	})

	t.Run("round trip at other angles covers the original", func(t *testing.T) {
		// each Rotate widens the box, so the round trip can only be an
		// over-approximation of the original
		for _, angle := range []float64{37, 359} {
			got := bb.Rotate(angle, Vector2D{X: 1, Y: 1}).Rotate(-angle, Vector2D{X: 1, Y: 1})
			assert.True(t, got.Contains(bb), "angle %v: got %+v", angle, got)
		}
	})
}

func TestBoundingBoxOverlaps(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, Width: 2, Height: 2}

	tests := []struct {
		name   string
		other  BoundingBox
		margin float64
		want   bool
	}{
		{"disjoint", BoundingBox{X: 5, Y: 5, Width: 1, Height: 1}, 0, false},
		{"intersecting", BoundingBox{X: 1, Y: 1, Width: 2, Height: 2}, 0, true},
		{"touching edges do not overlap", BoundingBox{X: 2, Y: 0, Width: 2, Height: 2}, 0, false},
		{"margin closes the gap", BoundingBox{X: 2.5, Y: 0, Width: 2, Height: 2}, 0.5, true},
		{"margin not quite enough", BoundingBox{X: 3, Y: 0, Width: 2, Height: 2}, 0.4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Overlaps(tt.other, tt.margin))
			// symmetric
			assert.Equal(t, tt.want, tt.other.Overlaps(a, tt.margin))
		})
	}
}

func TestBoundingBoxContains(t *testing.T) {
	outer := BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}

	assert.True(t, outer.Contains(BoundingBox{X: 2, Y: 2, Width: 3, Height: 3}))
	assert.True(t, outer.Contains(outer), "a box contains itself")
	assert.False(t, outer.Contains(BoundingBox{X: 8, Y: 8, Width: 5, Height: 5}))
	assert.False(t, outer.Contains(BoundingBox{X: -1, Y: 0, Width: 2, Height: 2}))
}

func TestBoundingBoxUnion(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, Width: 2, Height: 2}
	b := BoundingBox{X: 3, Y: -1, Width: 1, Height: 1}

	got := a.Union(b)
	assert.True(t, got.ApproxEqual(BoundingBox{X: 0, Y: -1, Width: 4, Height: 3}))

	// the zero box is a neutral aggregation seed
	assert.True(t, BoundingBox{}.Union(a).ApproxEqual(a))
	assert.True(t, a.Union(BoundingBox{}).ApproxEqual(a))
}
