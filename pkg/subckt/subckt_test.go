package subckt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/geom"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/place"
)

const demoCircuit = `
// a voltage divider with a locked IC
board "demo" {
  outline 50 40
  component "R1" footprint "R_0603" {
    pad "1" at -0.8 0 size 0.9 1 net "N1"
    pad "2" at 0.8 0 size 0.9 1 net "GND"
  }
  component "R2" footprint "R_0603" {
    pad "1" at -0.8 0 size 0.9 1 net "N1"
    pad "2" at 0.8 0 size 0.9 1
  }
  component "U1" footprint "SOIC-8" at 10 10 rot 90 locked {
    pad "1" at -1.9 -1.9 size 0.6 1.5 net "N1"
    pad "2" at -1.9 1.9 size 0.6 1.5 net "GND"
  }
}
`

func TestParseAndBuild(t *testing.T) {
	parser, err := NewParser()
	require.NoError(t, err)

	file, err := parser.ParseString(demoCircuit)
	require.NoError(t, err)
	assert.Equal(t, "demo", file.Board.Name)

	board, outline, err := file.Build()
	require.NoError(t, err)

	require.NotNil(t, outline)
	assert.True(t, outline.ApproxEqual(geom.BoundingBox{Width: 50, Height: 40}))

	require.Len(t, board.Footprints, 3)

	r1 := board.Footprints[0]
	assert.Equal(t, "R1", r1.Reference)
	assert.Equal(t, "R_0603", r1.Name)
	assert.False(t, r1.Locked)
	assert.Equal(t, place.Pose{}, r1.Pose)
	assert.NotEmpty(t, r1.UUID)
	require.Len(t, r1.Pads, 2)
	assert.Equal(t, "N1", r1.Pads[0].Net)
	assert.True(t, r1.BBox.ApproxEqual(geom.BoundingBox{X: -1.25, Y: -0.5, Width: 2.5, Height: 1}),
		"bbox = %+v", r1.BBox)

	// pad without a net clause is unconnected
	assert.Equal(t, "", board.Footprints[1].Pads[1].Net)

	u1 := board.Footprints[2]
	assert.True(t, u1.Locked)
	assert.Equal(t, place.Pose{X: 10, Y: 10, Rotation: 90}, u1.Pose)
}

func TestBuildFeedsThePlacer(t *testing.T) {
	parser, err := NewParser()
	require.NoError(t, err)

	file, err := parser.ParseString(demoCircuit)
	require.NoError(t, err)

	board, outline, err := file.Build()
	require.NoError(t, err)

	placer, err := place.New(board, outline)
	require.NoError(t, err)

	out, err := placer.PlaceAll(0.25)
	require.NoError(t, err)
	assert.Contains(t, out, `"status":"success"`)
}

func TestFixtureCircuitFile(t *testing.T) {
	parser, err := NewParser()
	require.NoError(t, err)

	file, err := parser.ParseFile("../../testdata/boards/divider.ckt")
	require.NoError(t, err)

	board, outline, err := file.Build()
	require.NoError(t, err)
	require.NotNil(t, outline)
	require.Len(t, board.Footprints, 4)

	placer, err := place.New(board, outline)
	require.NoError(t, err)

	out, err := placer.PlaceAll(0.25)
	require.NoError(t, err)
	assert.Contains(t, out, `"status":"success"`)
}

func TestParseErrors(t *testing.T) {
	parser, err := NewParser()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
	}{
		{"missing braces", `board "x" component "R1" footprint "R" {}`},
		{"pad without size", `board "x" { component "R1" footprint "R" { pad "1" at 0 0 } }`},
		{"bare words", `this is not a circuit`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseString(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestBuildValidation(t *testing.T) {
	parser, err := NewParser()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
	}{
		{
			"duplicate reference",
			`board "x" {
			  component "R1" footprint "R" { pad "1" at 0 0 size 1 1 }
			  component "R1" footprint "R" { pad "1" at 0 0 size 1 1 }
			}`,
		},
		{
			"component without pads",
			`board "x" { component "R1" footprint "R" { } }`,
		},
		{
			"locked without position",
			`board "x" { component "R1" footprint "R" locked { pad "1" at 0 0 size 1 1 } }`,
		},
		{
			"two outlines",
			`board "x" { outline 10 10 outline 20 20 }`,
		},
		{
			"degenerate outline",
			`board "x" { outline 0 10 }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := parser.ParseString(tt.input)
			require.NoError(t, err)
			_, _, err = file.Build()
			assert.Error(t, err)
		})
	}
}
