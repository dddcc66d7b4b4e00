package place

import (
	"fmt"
	"math"

	"github.com/fogleman/delaunay"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/geom"
)

// NetList maps a net name to the global position of every pad on it.
type NetList map[string][]geom.Vector2D

// Line is one ratsnest segment between two global pad positions.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// ManhattanLength returns the L1 length of the segment, the cost metric
// the placement search minimizes.
func (l Line) ManhattanLength() float64 {
	return math.Abs(l.X1-l.X2) + math.Abs(l.Y1-l.Y2)
}

// RatsNest maps a net name to the straight-line segments approximating
// its connectivity.
type RatsNest map[string][]Line

// TotalLength returns the summed Manhattan length of all segments.
func (rn RatsNest) TotalLength() float64 {
	total := 0.0
	for _, segments := range rn {
		for _, segment := range segments {
			total += segment.ManhattanLength()
		}
	}
	return total
}

func lineBetween(a, b geom.Vector2D) Line {
	return Line{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y}
}

// GlobalPadPosition returns the board-frame position of a pad. The
// parent footprint rotation is applied as quarter-turn coordinate swaps,
// so it must be a multiple of 90 degrees; anything else is an error.
func GlobalPadPosition(fp *Footprint, pad Pad) (geom.Vector2D, error) {
	angle := math.Mod(fp.Pose.Rotation, 360)
	if angle < 0 {
		angle += 360
	}
	if math.Mod(angle, 90) != 0 {
		return geom.Vector2D{}, fmt.Errorf(
			"place: footprint %s rotation %v is not a multiple of 90 degrees",
			fp.Reference, fp.Pose.Rotation)
	}

	x, y := pad.Offset.X, pad.Offset.Y
	for n := 0; n < int(math.Round(angle/90)); n++ {
		x, y = y, -x
	}
	return geom.Vector2D{X: x + fp.Pose.X, Y: y + fp.Pose.Y}, nil
}

// BuildNetList collects the global pad positions of every net across
// the given footprints. Unconnected pads are skipped.
func BuildNetList(footprints []*Footprint) (NetList, error) {
	netList := make(NetList)
	for _, fp := range footprints {
		for _, pad := range fp.Pads {
			if pad.Net == "" {
				continue
			}
			pos, err := GlobalPadPosition(fp, pad)
			if err != nil {
				return nil, err
			}
			netList[pad.Net] = append(netList[pad.Net], pos)
		}
	}
	return netList, nil
}

// BuildRatsNest builds the per-net connectivity segments for the given
// footprints. Nets in skipNets are left out entirely. A net with a
// single pad produces no segments, two pads one segment, three a
// triangle, and four or more the deduplicated edges of a Delaunay
// triangulation. Nets whose pads are coincident or collinear, the
// normal state while footprints still sit at the staging pose, degrade
// to a chain of segments instead of failing.
//
// A net with no pads cannot occur in a netlist built by BuildNetList;
// it is reported as an error rather than silently ignored.
func BuildRatsNest(footprints []*Footprint, skipNets []string) (RatsNest, error) {
	netList, err := BuildNetList(footprints)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]bool, len(skipNets))
	for _, name := range skipNets {
		skip[name] = true
	}

	nest := make(RatsNest)
	for name, pads := range netList {
		if skip[name] {
			continue
		}

		switch len(pads) {
		case 0:
			return nil, fmt.Errorf("place: net %q has no pads", name)
		case 1:
			// nothing to connect
		case 2:
			nest[name] = []Line{lineBetween(pads[0], pads[1])}
		case 3:
			nest[name] = []Line{
				lineBetween(pads[0], pads[1]),
				lineBetween(pads[1], pads[2]),
				lineBetween(pads[2], pads[0]),
			}
		default:
			nest[name] = delaunayEdges(pads)
		}
	}
	return nest, nil
}

// delaunayEdges triangulates the pad positions and returns each unique
// triangle edge once. Coincident pads collapse to a single point first.
// When no triangulation exists, which happens whenever the remaining
// points are collinear, the points are joined by a chain of segments.
func delaunayEdges(pads []geom.Vector2D) []Line {
	unique := make([]geom.Vector2D, 0, len(pads))
	dup := make(map[geom.Vector2D]bool, len(pads))
	for _, pad := range pads {
		if dup[pad] {
			continue
		}
		dup[pad] = true
		unique = append(unique, pad)
	}
	if len(unique) < 2 {
		return nil
	}

	points := make([]delaunay.Point, len(unique))
	for i, p := range unique {
		points[i] = delaunay.Point{X: p.X, Y: p.Y}
	}

	triangulation, err := delaunay.Triangulate(points)
	if err != nil || len(triangulation.Triangles) == 0 {
		return chainSegments(unique)
	}

	var segments []Line
	seen := make(map[[2]int]bool)
	triangles := triangulation.Triangles
	for t := 0; t < len(triangles); t += 3 {
		corners := [3]int{triangles[t], triangles[t+1], triangles[t+2]}
		for e := 0; e < 3; e++ {
			a, b := corners[e], corners[(e+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true
			segments = append(segments, lineBetween(unique[a], unique[b]))
		}
	}
	return segments
}

// chainSegments joins consecutive points with one segment each.
func chainSegments(points []geom.Vector2D) []Line {
	segments := make([]Line, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		segments = append(segments, lineBetween(points[i-1], points[i]))
	}
	return segments
}

// nearestPlacedSegments is the cheap per-candidate connectivity
// estimate used while searching: for every netted pad of fp, one
// segment to the closest same-net pad on an already placed footprint,
// by Manhattan distance. Nets in skip contribute nothing.
func nearestPlacedSegments(fp *Footprint, placed []*Footprint, skip map[string]bool) (RatsNest, error) {
	nest := make(RatsNest)

	for _, pad := range fp.Pads {
		if pad.Net == "" || skip[pad.Net] {
			continue
		}
		padPos, err := GlobalPadPosition(fp, pad)
		if err != nil {
			return nil, err
		}

		best := math.Inf(1)
		var bestLine Line
		found := false
		for _, other := range placed {
			for _, otherPad := range other.Pads {
				if otherPad.Net != pad.Net {
					continue
				}
				otherPos, err := GlobalPadPosition(other, otherPad)
				if err != nil {
					return nil, err
				}
				if d := padPos.ManhattanDistance(otherPos); d < best {
					best = d
					bestLine = lineBetween(padPos, otherPos)
					found = true
				}
			}
		}
		if found {
			nest[pad.Net] = append(nest[pad.Net], bestLine)
		}
	}

	return nest, nil
}
