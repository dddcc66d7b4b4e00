package place

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/geom"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/pcb"
)

// FromKiCad converts a parsed KiCad board into the placement model.
// Pad offsets stay in the footprint local frame; the local bounding box
// aggregates pad and graphic extents. Text items do not contribute to
// the box, matching how much room a component actually needs.
func FromKiCad(board *pcb.Board) (*Board, error) {
	footprints := make([]*Footprint, 0, len(board.Footprints))

	for i, src := range board.Footprints {
		fp, err := footprintFromKiCad(src)
		if err != nil {
			return nil, fmt.Errorf("place: footprint %d (%s): %w", i, src.Reference, err)
		}
		footprints = append(footprints, fp)
	}

	return NewBoard(footprints), nil
}

func footprintFromKiCad(src *pcb.Footprint) (*Footprint, error) {
	if len(src.Pads) == 0 && localGraphicsBox(&src.Graphics).IsEmpty() {
		return nil, fmt.Errorf("footprint has no pads and no graphics to size it by")
	}

	pads := make([]Pad, 0, len(src.Pads))
	bbox := localGraphicsBox(&src.Graphics)

	for _, pad := range src.Pads {
		net := ""
		if pad.Net != nil {
			net = pad.Net.Name
		}
		pads = append(pads, Pad{
			Number: pad.Number,
			Offset: geom.Vector2D{X: pad.Position.X, Y: pad.Position.Y},
			Net:    net,
		})

		padBox := geom.BoundingBox{
			X:      pad.Position.X - pad.Size.Width/2,
			Y:      pad.Position.Y - pad.Size.Height/2,
			Width:  pad.Size.Width,
			Height: pad.Size.Height,
		}
		bbox = bbox.Union(padBox)
	}

	fp := &Footprint{
		Name:      src.Name,
		Reference: src.Reference,
		UUID:      src.UUID,
		Pads:      pads,
		BBox:      bbox,
		Pose: Pose{
			X:        src.Position.X,
			Y:        src.Position.Y,
			Rotation: src.Position.Angle,
		},
		Locked: src.Locked,
	}
	if fp.UUID == "" {
		fp.UUID = uuid.NewString()
	}
	return fp, nil
}

// localGraphicsBox returns the extent of the footprint graphics in the
// local frame.
func localGraphicsBox(g *pcb.Graphics) geom.BoundingBox {
	var points []geom.Vector2D

	for _, line := range g.Lines {
		points = append(points,
			geom.Vector2D{X: line.Start.X, Y: line.Start.Y},
			geom.Vector2D{X: line.End.X, Y: line.End.Y})
	}
	for _, rect := range g.Rects {
		points = append(points,
			geom.Vector2D{X: rect.Start.X, Y: rect.Start.Y},
			geom.Vector2D{X: rect.End.X, Y: rect.End.Y})
	}
	for _, circle := range g.Circles {
		center := geom.Vector2D{X: circle.Center.X, Y: circle.Center.Y}
		radius := center.Distance(geom.Vector2D{X: circle.End.X, Y: circle.End.Y})
		points = append(points,
			geom.Vector2D{X: center.X - radius, Y: center.Y - radius},
			geom.Vector2D{X: center.X + radius, Y: center.Y + radius})
	}
	for _, arc := range g.Arcs {
		points = append(points,
			geom.Vector2D{X: arc.Start.X, Y: arc.Start.Y},
			geom.Vector2D{X: arc.Mid.X, Y: arc.Mid.Y},
			geom.Vector2D{X: arc.End.X, Y: arc.End.Y})
	}

	if len(points) == 0 {
		return geom.BoundingBox{}
	}
	return geom.BoxAround(points...)
}

// ApplyPlacement writes the poses of a placed board back onto the KiCad
// model it was built from, so the board can be saved.
func ApplyPlacement(src *Board, dst *pcb.Board) error {
	if len(src.Footprints) != len(dst.Footprints) {
		return fmt.Errorf("place: board mismatch: %d footprints placed, %d in file",
			len(src.Footprints), len(dst.Footprints))
	}

	for i, fp := range src.Footprints {
		dst.Footprints[i].Position = pcb.PositionAngle{
			X:     fp.Pose.X,
			Y:     fp.Pose.Y,
			Angle: fp.Pose.Rotation,
		}
	}
	return nil
}
