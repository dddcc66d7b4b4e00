package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/sexp"
)

// parseTracks extracts all copper segments from the root node
// Expected format: (segment (start x y) (end x y) (width w) (layer "F.Cu") (net n))
func parseTracks(root sexp.Sexp, netMap *NetMap) ([]Track, error) {
	var tracks []Track

	for i, node := range sexp.FindAllNodes(root, "segment") {
		startNode, found := sexp.FindNode(node, "start")
		if !found {
			return nil, fmt.Errorf("segment %d: missing required 'start' field", i)
		}
		start, err := parsePosition(startNode)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		endNode, found := sexp.FindNode(node, "end")
		if !found {
			return nil, fmt.Errorf("segment %d: missing required 'end' field", i)
		}
		end, err := parsePosition(endNode)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		track := Track{
			Start: start,
			End:   end,
			Layer: parseLayerName(node),
			Width: parseStrokeWidth(node),
		}

		if netNode, found := sexp.FindNode(node, "net"); found {
			if netNum, err := sexp.GetInt(netNode, 1); err == nil && netMap != nil {
				if net, ok := netMap.GetByNumber(netNum); ok {
					track.Net = net
				}
			}
		}

		tracks = append(tracks, track)
	}

	return tracks, nil
}

// parseVias extracts all vias from the root node
// Expected format: (via (at x y) (size s) (drill d) (layers "F.Cu" "B.Cu") (net n))
func parseVias(root sexp.Sexp, netMap *NetMap) ([]Via, error) {
	var vias []Via

	for i, node := range sexp.FindAllNodes(root, "via") {
		atNode, found := sexp.FindNode(node, "at")
		if !found {
			return nil, fmt.Errorf("via %d: missing required 'at' field", i)
		}
		pos, err := parsePosition(atNode)
		if err != nil {
			return nil, fmt.Errorf("via %d: %w", i, err)
		}

		via := Via{Position: pos}

		if sizeNode, found := sexp.FindNode(node, "size"); found {
			if size, err := sexp.GetFloat(sizeNode, 1); err == nil {
				via.Size = size
			}
		}

		if drillNode, found := sexp.FindNode(node, "drill"); found {
			if drill, err := sexp.GetFloat(drillNode, 1); err == nil {
				via.Drill = drill
			}
		}

		if layersNode, found := sexp.FindNode(node, "layers"); found {
			for _, item := range sexp.Items(layersNode) {
				if !item.IsLeaf() {
					continue
				}
				switch atom := item.(type) {
				case sexp.Symbol:
					via.Layers = append(via.Layers, string(atom))
				case sexp.Str:
					via.Layers = append(via.Layers, string(atom))
				}
			}
		}

		if netNode, found := sexp.FindNode(node, "net"); found {
			if netNum, err := sexp.GetInt(netNode, 1); err == nil && netMap != nil {
				if net, ok := netMap.GetByNumber(netNum); ok {
					via.Net = net
				}
			}
		}

		vias = append(vias, via)
	}

	return vias, nil
}
