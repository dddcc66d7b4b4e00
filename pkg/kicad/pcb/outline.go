package pcb

import (
	"github.com/OpenTraceLab/OpenTracePlace/pkg/geom"
)

// EdgeCutsLayer is the KiCad layer carrying the board outline.
const EdgeCutsLayer = "Edge.Cuts"

// Outline returns the bounding box of the Edge.Cuts graphics, the area
// the placement engine is allowed to use. ok is false when the board has
// no outline drawn.
//
// Arcs contribute their start, mid and end points, so an outline made of
// bulging arcs yields a slightly conservative box.
func (b *Board) Outline() (outline geom.BoundingBox, ok bool) {
	var points []geom.Vector2D

	for _, line := range b.Graphics.Lines {
		if line.Layer != EdgeCutsLayer {
			continue
		}
		points = append(points,
			geom.Vector2D{X: line.Start.X, Y: line.Start.Y},
			geom.Vector2D{X: line.End.X, Y: line.End.Y})
	}

	for _, rect := range b.Graphics.Rects {
		if rect.Layer != EdgeCutsLayer {
			continue
		}
		points = append(points,
			geom.Vector2D{X: rect.Start.X, Y: rect.Start.Y},
			geom.Vector2D{X: rect.End.X, Y: rect.End.Y})
	}

	for _, circle := range b.Graphics.Circles {
		if circle.Layer != EdgeCutsLayer {
			continue
		}
		center := geom.Vector2D{X: circle.Center.X, Y: circle.Center.Y}
		radius := center.Distance(geom.Vector2D{X: circle.End.X, Y: circle.End.Y})
		points = append(points,
			geom.Vector2D{X: center.X - radius, Y: center.Y - radius},
			geom.Vector2D{X: center.X + radius, Y: center.Y + radius})
	}

	for _, arc := range b.Graphics.Arcs {
		if arc.Layer != EdgeCutsLayer {
			continue
		}
		points = append(points,
			geom.Vector2D{X: arc.Start.X, Y: arc.Start.Y},
			geom.Vector2D{X: arc.Mid.X, Y: arc.Mid.Y},
			geom.Vector2D{X: arc.End.X, Y: arc.End.Y})
	}

	if len(points) == 0 {
		return geom.BoundingBox{}, false
	}
	return geom.BoxAround(points...), true
}
