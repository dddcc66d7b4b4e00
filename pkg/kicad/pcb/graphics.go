package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp"
)

// parsePosition extracts coordinates from a (at x y), (start x y),
// (mid x y), (end x y) or (center x y) node.
func parsePosition(node sexp.Sexp) (Position, error) {
	x, err := sexp.GetFloat(node, 1)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse X coordinate: %w", err)
	}

	y, err := sexp.GetFloat(node, 2)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse Y coordinate: %w", err)
	}

	return Position{X: x, Y: y}, nil
}

// parsePositionAngle extracts coordinates and an optional angle from an
// (at x y [angle]) node.
func parsePositionAngle(node sexp.Sexp) (PositionAngle, error) {
	pos, err := parsePosition(node)
	if err != nil {
		return PositionAngle{}, err
	}

	pa := PositionAngle{X: pos.X, Y: pos.Y}
	if angle, err := sexp.GetFloat(node, 3); err == nil {
		pa.Angle = angle
	}
	return pa, nil
}

// parseLayerName extracts the layer name from a (layer "name") child.
func parseLayerName(node sexp.Sexp) string {
	layerNode, found := sexp.FindNode(node, "layer")
	if !found {
		return ""
	}
	name, err := sexp.GetString(layerNode, 1)
	if err != nil {
		return ""
	}
	return name
}

// parseStrokeWidth extracts the line width from either the KiCad 6
// (width w) child or the KiCad 7+ (stroke (width w)) child.
func parseStrokeWidth(node sexp.Sexp) float64 {
	if widthNode, found := sexp.FindNode(node, "width"); found {
		if w, err := sexp.GetFloat(widthNode, 1); err == nil {
			return w
		}
	}
	if strokeNode, found := sexp.FindNode(node, "stroke"); found {
		if widthNode, found := sexp.FindNode(strokeNode, "width"); found {
			if w, err := sexp.GetFloat(widthNode, 1); err == nil {
				return w
			}
		}
	}
	return 0
}

// parseGraphics collects the graphic primitives under root. The node key
// arguments select the dialect: gr_* for board graphics, fp_* for
// footprint graphics.
func parseGraphics(root sexp.Sexp, lineKey, rectKey, circleKey, arcKey string) (*Graphics, error) {
	g := &Graphics{}

	for _, node := range sexp.FindAllNodes(root, lineKey) {
		line, err := parseGraphicLine(node)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", lineKey, err)
		}
		g.Lines = append(g.Lines, line)
	}

	for _, node := range sexp.FindAllNodes(root, rectKey) {
		rect, err := parseGraphicRect(node)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", rectKey, err)
		}
		g.Rects = append(g.Rects, rect)
	}

	for _, node := range sexp.FindAllNodes(root, circleKey) {
		circle, err := parseGraphicCircle(node)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", circleKey, err)
		}
		g.Circles = append(g.Circles, circle)
	}

	for _, node := range sexp.FindAllNodes(root, arcKey) {
		arc, err := parseGraphicArc(node)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", arcKey, err)
		}
		g.Arcs = append(g.Arcs, arc)
	}

	return g, nil
}

// parseGraphicLine parses (gr_line (start x y) (end x y) (layer "L") (width w))
func parseGraphicLine(node sexp.Sexp) (GraphicLine, error) {
	startNode, found := sexp.FindNode(node, "start")
	if !found {
		return GraphicLine{}, fmt.Errorf("missing required 'start' field")
	}
	start, err := parsePosition(startNode)
	if err != nil {
		return GraphicLine{}, err
	}

	endNode, found := sexp.FindNode(node, "end")
	if !found {
		return GraphicLine{}, fmt.Errorf("missing required 'end' field")
	}
	end, err := parsePosition(endNode)
	if err != nil {
		return GraphicLine{}, err
	}

	return GraphicLine{
		Start: start,
		End:   end,
		Layer: parseLayerName(node),
		Width: parseStrokeWidth(node),
	}, nil
}

// parseGraphicRect parses (gr_rect (start x y) (end x y) ...)
func parseGraphicRect(node sexp.Sexp) (GraphicRect, error) {
	line, err := parseGraphicLine(node)
	if err != nil {
		return GraphicRect{}, err
	}
	return GraphicRect{Start: line.Start, End: line.End, Layer: line.Layer, Width: line.Width}, nil
}

// parseGraphicCircle parses (gr_circle (center x y) (end x y) ...)
func parseGraphicCircle(node sexp.Sexp) (GraphicCircle, error) {
	centerNode, found := sexp.FindNode(node, "center")
	if !found {
		return GraphicCircle{}, fmt.Errorf("missing required 'center' field")
	}
	center, err := parsePosition(centerNode)
	if err != nil {
		return GraphicCircle{}, err
	}

	endNode, found := sexp.FindNode(node, "end")
	if !found {
		return GraphicCircle{}, fmt.Errorf("missing required 'end' field")
	}
	end, err := parsePosition(endNode)
	if err != nil {
		return GraphicCircle{}, err
	}

	return GraphicCircle{
		Center: center,
		End:    end,
		Layer:  parseLayerName(node),
		Width:  parseStrokeWidth(node),
	}, nil
}

// parseGraphicArc parses (gr_arc (start x y) (mid x y) (end x y) ...)
func parseGraphicArc(node sexp.Sexp) (GraphicArc, error) {
	arc := GraphicArc{
		Layer: parseLayerName(node),
		Width: parseStrokeWidth(node),
	}

	startNode, found := sexp.FindNode(node, "start")
	if !found {
		return GraphicArc{}, fmt.Errorf("missing required 'start' field")
	}
	start, err := parsePosition(startNode)
	if err != nil {
		return GraphicArc{}, err
	}
	arc.Start = start

	// Mid is optional; KiCad 6 arcs used center+angle, which older
	// exporters still emit. Only start/mid/end arcs are reconstructed
	// exactly.
	if midNode, found := sexp.FindNode(node, "mid"); found {
		mid, err := parsePosition(midNode)
		if err != nil {
			return GraphicArc{}, err
		}
		arc.Mid = mid
	}

	endNode, found := sexp.FindNode(node, "end")
	if !found {
		return GraphicArc{}, fmt.Errorf("missing required 'end' field")
	}
	end, err := parsePosition(endNode)
	if err != nil {
		return GraphicArc{}, err
	}
	arc.End = end

	return arc, nil
}
