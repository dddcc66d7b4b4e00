// Package place implements the component autoplacement engine: it takes
// a board whose footprints have no meaningful positions yet and assigns
// each one a pose so that connected components end up close together
// without overlapping, inside an optional board outline.
package place

import (
	"sort"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/geom"
)

// Pose is a footprint position in board coordinates (mm) plus a rotation
// in degrees. The zero pose doubles as the staging pose of footprints
// that have not been placed yet.
type Pose struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// Pad is a single connection point, positioned relative to its footprint
// origin. An empty Net means the pad is unconnected.
type Pad struct {
	Number string
	Offset geom.Vector2D
	Net    string
}

// Footprint is one component land pattern in the placement model.
// Identity is the UUID, not the struct contents: two footprints with
// identical pads and name are still distinct components.
type Footprint struct {
	Name      string // library footprint name, e.g. "R_0603"
	Reference string // designator, e.g. "R1"
	UUID      string
	Pads      []Pad

	// BBox is the footprint extent in its local unrotated frame,
	// aggregated from pad and graphic extents.
	BBox geom.BoundingBox

	Pose   Pose
	Locked bool
	Placed bool
}

// NewFootprint builds a footprint with a fresh UUID.
func NewFootprint(name, reference string, pads []Pad, bbox geom.BoundingBox) *Footprint {
	return &Footprint{
		Name:      name,
		Reference: reference,
		UUID:      uuid.NewString(),
		Pads:      pads,
		BBox:      bbox,
	}
}

// GlobalBBox returns the bounding box in board coordinates for the
// current pose: the local box rotated about the footprint origin, then
// translated.
func (fp *Footprint) GlobalBBox() geom.BoundingBox {
	return fp.BBox.Rotate(fp.Pose.Rotation, geom.Vector2D{}).Translate(fp.Pose.X, fp.Pose.Y)
}

// NetNames returns the distinct non-empty net names this footprint's
// pads connect to, excluding any in skip.
func (fp *Footprint) NetNames(skip map[string]bool) map[string]bool {
	nets := make(map[string]bool)
	for _, pad := range fp.Pads {
		if pad.Net == "" || skip[pad.Net] {
			continue
		}
		nets[pad.Net] = true
	}
	return nets
}

// SharesNet reports whether the two footprints have pads on a common
// net, ignoring empty and skipped nets.
func (fp *Footprint) SharesNet(other *Footprint, skip map[string]bool) bool {
	nets := fp.NetNames(skip)
	for _, pad := range other.Pads {
		if pad.Net == "" || skip[pad.Net] {
			continue
		}
		if nets[pad.Net] {
			return true
		}
	}
	return false
}

// Board is the mutable collection of footprints a placement run owns.
type Board struct {
	Footprints []*Footprint
}

// NewBoard wraps the given footprints, assigning UUIDs where missing.
func NewBoard(footprints []*Footprint) *Board {
	for _, fp := range footprints {
		if fp.UUID == "" {
			fp.UUID = uuid.NewString()
		}
	}
	return &Board{Footprints: footprints}
}

// LockedComponents returns the indices of locked footprints.
func (b *Board) LockedComponents() []int {
	var locked []int
	for i, fp := range b.Footprints {
		if fp.Locked {
			locked = append(locked, i)
		}
	}
	return locked
}

// FootprintByReference returns the footprint with the given reference
// designator.
func (b *Board) FootprintByReference(ref string) (*Footprint, bool) {
	for _, fp := range b.Footprints {
		if fp.Reference == ref {
			return fp, true
		}
	}
	return nil, false
}

// sortByReference orders footprint indices by reference designator so
// iteration over set-like collections stays deterministic run to run.
func (b *Board) sortByReference(indices []int) {
	sort.Slice(indices, func(i, j int) bool {
		return b.Footprints[indices[i]].Reference < b.Footprints[indices[j]].Reference
	})
}
