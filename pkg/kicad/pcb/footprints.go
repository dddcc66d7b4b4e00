package pcb

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp"
)

// parseFootprints extracts all footprint definitions from the root node.
func parseFootprints(root sexp.Sexp, netMap *NetMap) ([]*Footprint, error) {
	var footprints []*Footprint

	for i, node := range sexp.FindAllNodes(root, "footprint") {
		fp, err := parseFootprint(node, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse footprint %d: %w", i, err)
		}
		footprints = append(footprints, fp)
	}

	return footprints, nil
}

// parseFootprint extracts a footprint (component) definition
// Expected format: (footprint "library:name" [locked] (layer "layer") (at x y [angle]) ...)
func parseFootprint(node sexp.Sexp, netMap *NetMap) (*Footprint, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected footprint list, got leaf")
	}

	footprint := &Footprint{}

	// Footprint name in library:name format
	fpName, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}
	if lib, name, found := strings.Cut(fpName, ":"); found && lib != "" {
		footprint.Library = lib
		footprint.Name = name
	} else {
		footprint.Name = fpName
	}

	footprint.Layer = parseLayerName(node)

	if atNode, found := sexp.FindNode(node, "at"); found {
		pos, err := parsePositionAngle(atNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse footprint position: %w", err)
		}
		footprint.Position = pos
	} else {
		return nil, fmt.Errorf("missing required 'at' position")
	}

	footprint.Locked = parseLocked(node)

	if uuidNode, found := sexp.FindNode(node, "uuid"); found {
		if id, err := sexp.GetString(uuidNode, 1); err == nil {
			footprint.UUID = id
		}
	} else if tstampNode, found := sexp.FindNode(node, "tstamp"); found {
		if id, err := sexp.GetString(tstampNode, 1); err == nil {
			footprint.UUID = id
		}
	}

	// Reference and value: KiCad 7+ stores them as (property "Reference" "R1"),
	// KiCad 6 as (fp_text reference "R1" ...)
	for _, propNode := range sexp.FindAllNodes(node, "property") {
		key, err := sexp.GetString(propNode, 1)
		if err != nil {
			continue
		}
		value, err := sexp.GetString(propNode, 2)
		if err != nil {
			continue
		}
		switch key {
		case "Reference":
			footprint.Reference = value
		case "Value":
			footprint.Value = value
		}
	}

	for _, textNode := range sexp.FindAllNodes(node, "fp_text") {
		text, err := parseFpText(textNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fp_text: %w", err)
		}
		footprint.Texts = append(footprint.Texts, text)

		switch text.Type {
		case "reference":
			if footprint.Reference == "" {
				footprint.Reference = text.Text
			}
		case "value":
			if footprint.Value == "" {
				footprint.Value = text.Text
			}
		}
	}

	graphics, err := parseGraphics(node, "fp_line", "fp_rect", "fp_circle", "fp_arc")
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint graphics: %w", err)
	}
	footprint.Graphics = *graphics

	for i, padNode := range sexp.FindAllNodes(node, "pad") {
		pad, err := parsePad(padNode, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad %d: %w", i, err)
		}
		footprint.Pads = append(footprint.Pads, pad)
	}

	return footprint, nil
}

// parseLocked detects the locked attribute in both dialects: the bare
// "locked" symbol (KiCad 6) and the (locked yes) node (KiCad 8).
func parseLocked(node sexp.Sexp) bool {
	if sexp.HasFlag(node, "locked") {
		return true
	}
	if lockedNode, found := sexp.FindNode(node, "locked"); found {
		if val, err := sexp.GetString(lockedNode, 1); err == nil && val == "yes" {
			return true
		}
	}
	return false
}

// parseFpText parses (fp_text reference "R1" (at x y) (layer "F.SilkS") ...)
func parseFpText(node sexp.Sexp) (FpText, error) {
	textType, err := sexp.GetString(node, 1)
	if err != nil {
		return FpText{}, fmt.Errorf("failed to parse text type: %w", err)
	}

	text, err := sexp.GetString(node, 2)
	if err != nil {
		return FpText{}, fmt.Errorf("failed to parse text content: %w", err)
	}

	fpText := FpText{
		Type:  textType,
		Text:  text,
		Layer: parseLayerName(node),
	}

	if atNode, found := sexp.FindNode(node, "at"); found {
		pos, err := parsePositionAngle(atNode)
		if err != nil {
			return FpText{}, err
		}
		fpText.Position = pos
	}

	return fpText, nil
}

// parsePad extracts a pad definition from a footprint
// Expected format: (pad "number" type shape (at x y [angle]) (size w h) (layers ...) (net n "name") ...)
func parsePad(node sexp.Sexp, netMap *NetMap) (*Pad, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected pad list, got leaf")
	}

	pad := &Pad{}

	number, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad number: %w", err)
	}
	pad.Number = number

	padType, err := sexp.GetString(node, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad type: %w", err)
	}
	pad.Type = padType

	shape, err := sexp.GetString(node, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad shape: %w", err)
	}
	pad.Shape = shape

	if atNode, found := sexp.FindNode(node, "at"); found {
		pos, err := parsePositionAngle(atNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad position: %w", err)
		}
		pad.Position = pos
	} else {
		return nil, fmt.Errorf("missing required 'at' position")
	}

	if sizeNode, found := sexp.FindNode(node, "size"); found {
		width, err := sexp.GetFloat(sizeNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad width: %w", err)
		}
		height, err := sexp.GetFloat(sizeNode, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad height: %w", err)
		}
		pad.Size = Size{Width: width, Height: height}
	} else {
		return nil, fmt.Errorf("missing required 'size' field")
	}

	// Drill can be just a number or (drill (diameter d))
	if drillNode, found := sexp.FindNode(node, "drill"); found {
		if drill, err := sexp.GetFloat(drillNode, 1); err == nil {
			pad.Drill = drill
		}
	}

	if layersNode, found := sexp.FindNode(node, "layers"); found {
		for _, item := range sexp.Items(layersNode) {
			if !item.IsLeaf() {
				continue
			}
			switch atom := item.(type) {
			case sexp.Symbol:
				pad.Layers = append(pad.Layers, string(atom))
			case sexp.Str:
				pad.Layers = append(pad.Layers, string(atom))
			}
		}
	} else {
		return nil, fmt.Errorf("missing required 'layers' field")
	}

	if netNode, found := sexp.FindNode(node, "net"); found {
		netNum, err := sexp.GetInt(netNode, 1)
		if err == nil && netMap != nil {
			if net, ok := netMap.GetByNumber(netNum); ok {
				pad.Net = net
			}
		}
	}

	return pad, nil
}
