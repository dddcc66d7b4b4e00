package place

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/geom"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/pcb"
)

const kicadFixture = `(kicad_pcb
  (version 20221018)
  (generator "pcbnew")
  (net 0 "")
  (net 1 "GND")
  (net 2 "N1")
  (gr_rect (start 0 0) (end 50 40) (layer "Edge.Cuts") (width 0.1))
  (footprint "Resistor_SMD:R_0603" locked (layer "F.Cu") (at 10 10 90)
    (fp_text reference "R1" (at 0 -1.5) (layer "F.SilkS"))
    (fp_line (start -1.2 -0.6) (end 1.2 -0.6) (layer "F.SilkS") (width 0.12))
    (fp_line (start -1.2 0.6) (end 1.2 0.6) (layer "F.SilkS") (width 0.12))
    (pad "1" smd rect (at -0.8 0) (size 0.9 0.95) (layers "F.Cu") (net 2 "N1"))
    (pad "2" smd rect (at 0.8 0) (size 0.9 0.95) (layers "F.Cu") (net 1 "GND"))
  )
  (footprint "Capacitor_SMD:C_0603" (layer "F.Cu") (at 20 12)
    (fp_text reference "C1" (at 0 -1.5) (layer "F.SilkS"))
    (pad "1" smd rect (at -0.75 0) (size 0.8 0.9) (layers "F.Cu") (net 2 "N1"))
    (pad "2" smd rect (at 0.75 0) (size 0.8 0.9) (layers "F.Cu") (net 0 ""))
  )
)`

func parseFixture(t *testing.T) *pcb.Board {
	t.Helper()
	board, err := pcb.Parse(strings.NewReader(kicadFixture))
	require.NoError(t, err)
	return board
}

func TestFromKiCad(t *testing.T) {
	board, err := FromKiCad(parseFixture(t))
	require.NoError(t, err)
	require.Len(t, board.Footprints, 2)

	r1 := board.Footprints[0]
	assert.Equal(t, "R_0603", r1.Name)
	assert.Equal(t, "R1", r1.Reference)
	assert.True(t, r1.Locked)
	assert.Equal(t, Pose{X: 10, Y: 10, Rotation: 90}, r1.Pose)
	assert.NotEmpty(t, r1.UUID)

	require.Len(t, r1.Pads, 2)
	assert.Equal(t, "N1", r1.Pads[0].Net)
	assert.True(t, r1.Pads[0].Offset.ApproxEqual(geom.Vector2D{X: -0.8}))

	// local box covers the silkscreen lines (x: -1.2..1.2) and the
	// pads (y: -0.6..0.6 from graphics, pads only -0.475..0.475)
	assert.True(t, r1.BBox.ApproxEqual(geom.BoundingBox{X: -1.25, Y: -0.6, Width: 2.5, Height: 1.2}),
		"bbox = %+v", r1.BBox)

	// net 0 has an empty name: that pad counts as unconnected
	c1 := board.Footprints[1]
	assert.Equal(t, "", c1.Pads[1].Net)
	assert.False(t, c1.Locked)
}

func TestFromKiCadPlacesEndToEnd(t *testing.T) {
	kicadBoard := parseFixture(t)
	board, err := FromKiCad(kicadBoard)
	require.NoError(t, err)

	outline, ok := kicadBoard.Outline()
	require.True(t, ok)

	placer, err := New(board, &outline)
	require.NoError(t, err)

	out, err := placer.PlaceAll(0.25)
	require.NoError(t, err)

	state, _ := decodeStatus(t, out)
	assert.Equal(t, "success", state)

	require.NoError(t, ApplyPlacement(board, kicadBoard))
	for i, fp := range board.Footprints {
		assert.Equal(t, fp.Pose.X, kicadBoard.Footprints[i].Position.X)
		assert.Equal(t, fp.Pose.Y, kicadBoard.Footprints[i].Position.Y)
		assert.Equal(t, fp.Pose.Rotation, kicadBoard.Footprints[i].Position.Angle)
	}
}

func TestFixtureBoardFile(t *testing.T) {
	kicadBoard, err := pcb.ParseFile("../../testdata/boards/divider.kicad_pcb")
	require.NoError(t, err)

	board, err := FromKiCad(kicadBoard)
	require.NoError(t, err)
	require.Len(t, board.Footprints, 5)

	outline, ok := kicadBoard.Outline()
	require.True(t, ok)
	assert.True(t, outline.ApproxEqual(geom.BoundingBox{Width: 30, Height: 20}))

	u1, ok := board.FootprintByReference("U1")
	require.True(t, ok)
	assert.True(t, u1.Locked)

	placer, err := New(board, &outline)
	require.NoError(t, err)

	out, err := placer.PlaceAll(0.25)
	require.NoError(t, err)

	state, issues := decodeStatus(t, out)
	assert.Equal(t, "success", state)
	// the mounting hole is isolated but not reported as such
	assert.Empty(t, issues)

	assert.Equal(t, Pose{X: 15, Y: 10}, u1.Pose)
	for _, fp := range board.Footprints {
		assert.True(t, fp.Placed, "footprint %s not placed", fp.Reference)
	}
}

func TestApplyPlacementRejectsMismatch(t *testing.T) {
	kicadBoard := parseFixture(t)
	board, err := FromKiCad(kicadBoard)
	require.NoError(t, err)

	board.Footprints = board.Footprints[:1]
	assert.Error(t, ApplyPlacement(board, kicadBoard))
}
