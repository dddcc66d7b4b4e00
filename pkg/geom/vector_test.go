package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vector2D{X: 3, Y: -2}
	b := Vector2D{X: 1, Y: 5}

	assert.Equal(t, Vector2D{X: 4, Y: 3}, a.Add(b))
	assert.Equal(t, Vector2D{X: 2, Y: -7}, a.Sub(b))
	assert.Equal(t, Vector2D{X: 6, Y: -4}, a.Scale(2))
}

func TestVectorDistance(t *testing.T) {
	a := Vector2D{X: 0, Y: 0}
	b := Vector2D{X: 3, Y: 4}

	assert.InDelta(t, 5, a.Distance(b), Tolerance)
	assert.InDelta(t, 7, a.ManhattanDistance(b), Tolerance)
	assert.InDelta(t, a.Distance(b), b.Distance(a), Tolerance)
}

func TestVectorRotate(t *testing.T) {
	tests := []struct {
		name   string
		v      Vector2D
		angle  float64
		center Vector2D
		want   Vector2D
	}{
		{"quarter turn about origin", Vector2D{X: 1, Y: 0}, 90, Vector2D{}, Vector2D{X: 0, Y: -1}},
		{"half turn about origin", Vector2D{X: 2, Y: 3}, 180, Vector2D{}, Vector2D{X: -2, Y: -3}},
		{"full turn is identity", Vector2D{X: -4, Y: 7}, 360, Vector2D{}, Vector2D{X: -4, Y: 7}},
		{"offset center", Vector2D{X: 2, Y: 1}, 90, Vector2D{X: 1, Y: 1}, Vector2D{X: 1, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Rotate(tt.angle, tt.center)
			assert.True(t, got.ApproxEqual(tt.want), "got %+v want %+v", got, tt.want)
		})
	}
}

func TestVectorRotateRoundTrip(t *testing.T) {
	v := Vector2D{X: 3.5, Y: -1.25}
	center := Vector2D{X: 1, Y: 2}

	for _, angle := range []float64{0, 33, 45, 90, 135, 270, 359} {
		back := v.Rotate(angle, center).Rotate(-angle, center)
		assert.True(t, back.ApproxEqual(v), "angle %v: got %+v", angle, back)
	}
}
