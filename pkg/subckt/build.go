package subckt

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/geom"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/place"
)

// Build converts the parsed description into a placement board and the
// declared outline. The outline is nil when the file does not declare
// one.
func (f *File) Build() (*place.Board, *geom.BoundingBox, error) {
	if f.Board == nil {
		return nil, nil, fmt.Errorf("subckt: missing board block")
	}

	var outline *geom.BoundingBox
	var footprints []*place.Footprint
	seen := make(map[string]bool)

	for _, entry := range f.Board.Entries {
		switch {
		case entry.Outline != nil:
			if outline != nil {
				return nil, nil, fmt.Errorf("subckt: board %q declares more than one outline", f.Board.Name)
			}
			if entry.Outline.Width <= 0 || entry.Outline.Height <= 0 {
				return nil, nil, fmt.Errorf("subckt: outline %v x %v is not a valid area",
					entry.Outline.Width, entry.Outline.Height)
			}
			outline = &geom.BoundingBox{Width: entry.Outline.Width, Height: entry.Outline.Height}

		case entry.Component != nil:
			decl := entry.Component
			if seen[decl.Reference] {
				return nil, nil, fmt.Errorf("subckt: duplicate component reference %q", decl.Reference)
			}
			seen[decl.Reference] = true

			fp, err := decl.build()
			if err != nil {
				return nil, nil, err
			}
			footprints = append(footprints, fp)
		}
	}

	return place.NewBoard(footprints), outline, nil
}

func (decl *ComponentDecl) build() (*place.Footprint, error) {
	if len(decl.Pads) == 0 {
		return nil, fmt.Errorf("subckt: component %q has no pads", decl.Reference)
	}

	pads := make([]place.Pad, 0, len(decl.Pads))
	var corners []geom.Vector2D
	for _, pad := range decl.Pads {
		if pad.Width <= 0 || pad.Height <= 0 {
			return nil, fmt.Errorf("subckt: component %q pad %q has size %v x %v",
				decl.Reference, pad.Number, pad.Width, pad.Height)
		}
		pads = append(pads, place.Pad{
			Number: pad.Number,
			Offset: geom.Vector2D{X: pad.X, Y: pad.Y},
			Net:    pad.Net,
		})
		corners = append(corners,
			geom.Vector2D{X: pad.X - pad.Width/2, Y: pad.Y - pad.Height/2},
			geom.Vector2D{X: pad.X + pad.Width/2, Y: pad.Y + pad.Height/2})
	}

	fp := place.NewFootprint(decl.Footprint, decl.Reference, pads, geom.BoxAround(corners...))

	if decl.At != nil {
		fp.Pose.X = decl.At.X
		fp.Pose.Y = decl.At.Y
	}
	if decl.Rot != nil {
		fp.Pose.Rotation = *decl.Rot
	}
	fp.Locked = decl.Locked

	if fp.Locked && decl.At == nil {
		return nil, fmt.Errorf("subckt: locked component %q needs an explicit position", decl.Reference)
	}

	return fp, nil
}
