package place

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/geom"
)

// DefaultSkipNets are the nets excluded from connectivity scoring unless
// the caller overrides them. Ground planes connect to so many pads that
// they would dominate every cost.
var DefaultSkipNets = []string{"GND"}

const (
	// maxSearchRadius bounds the ring sweep around a search center.
	maxSearchRadius = 1000
	// searchStep is the radius increment between rings, in mm.
	searchStep = 1
	// mountingHolePrefix marks footprints that are expected to have no
	// electrical connections.
	mountingHolePrefix = "MountingHole"
)

// searchRotations are the candidate orientations tried at every ring
// point.
var searchRotations = []float64{0, 90, 180, 270}

// Issue messages reported by the engine.
const (
	msgLockedOutsideOutline = "Some locked components are positioned outside of selected outline."
	msgLockedOverlap        = "Two or more locked components overlap each other."
	msgIsolatedComponents   = "The circuit has electrically isolated components."
	msgOutlineTooSmall      = "Selected board outline is too small to find a space for this footprint."
	msgCouldNotPlace        = "Could not place a component."
)

// IntermediateState is a read-only snapshot of the search, produced
// after each observable step so callers can visualize progress.
type IntermediateState struct {
	// CurrentBBox is the candidate footprint box at the pose just
	// tested, nil in the final snapshot.
	CurrentBBox *geom.BoundingBox `json:"current_bbox,omitempty"`

	// PlacedBBoxes are the boxes of all committed footprints.
	PlacedBBoxes []geom.BoundingBox `json:"placed_bboxes"`

	// TestedPoses are the poses tried so far for the current candidate.
	TestedPoses []Pose `json:"tested_poses,omitempty"`

	// CurrentRatsNest connects the candidate to already placed pads.
	CurrentRatsNest RatsNest `json:"current_rats_nest,omitempty"`

	// FullRatsNest is the board-wide ratsnest, built once up front and
	// refreshed for the final snapshot.
	FullRatsNest RatsNest `json:"full_rats_nest"`

	// Overlap is true when the tested pose collided with a placed
	// footprint or left the outline.
	Overlap bool `json:"overlap"`
}

// candidateSearch is the in-flight ring sweep for one footprint. It is
// the engine's resume point between Step calls.
type candidateSearch struct {
	idx     int
	staging Pose
	center  geom.Vector2D

	radius  int
	ring    []geom.Vector2D
	ringPos int
	rotPos  int

	best     *Pose
	bestCost float64
	tested   []Pose
}

// Autoplacer assigns a pose to every unlocked footprint on a board so
// that connected components end up close together without overlapping,
// inside the outline when one is given. It owns the board exclusively
// for the duration of a run.
type Autoplacer struct {
	board    *Board
	outline  *geom.BoundingBox
	skipNets map[string]bool
	status   *Status

	placed   map[int]struct{}
	waitlist map[int]struct{}

	fullRatsNest RatsNest

	debug     int
	batch     []int
	cur       *candidateSearch
	done      bool
	finalSent bool
	last      *IntermediateState
}

// New builds an autoplacer over the board. Unlocked footprints are
// reset to the staging pose and marked unplaced; locked footprints keep
// their position and are validated against the outline and each other.
// skipNets defaults to DefaultSkipNets when empty.
func New(board *Board, outline *geom.BoundingBox, skipNets ...string) (*Autoplacer, error) {
	if len(skipNets) == 0 {
		skipNets = DefaultSkipNets
	}
	skip := make(map[string]bool, len(skipNets))
	for _, name := range skipNets {
		skip[name] = true
	}

	a := &Autoplacer{
		board:    board,
		outline:  outline,
		skipNets: skip,
		status:   NewStatus(),
		placed:   make(map[int]struct{}),
		waitlist: make(map[int]struct{}),
	}

	for i, fp := range board.Footprints {
		if fp.Locked {
			fp.Placed = true
			a.placed[i] = struct{}{}
			continue
		}
		fp.Pose = Pose{}
		fp.Placed = false
		a.waitlist[i] = struct{}{}
	}

	a.validateLocked()

	nest, err := BuildRatsNest(board.Footprints, skipNets)
	if err != nil {
		return nil, err
	}
	a.fullRatsNest = nest

	return a, nil
}

// validateLocked checks the pre-placed footprints: an outline violation
// is fatal, mutual overlap is only suspicious.
func (a *Autoplacer) validateLocked() {
	locked := a.placedIndices()
	for _, i := range locked {
		bbox := a.board.Footprints[i].GlobalBBox()
		if a.outline != nil && !a.outline.Contains(bbox) {
			a.status.LogIssue(IssueError, msgLockedOutsideOutline)
		}
		for _, j := range locked {
			if i == j {
				continue
			}
			if bbox.Overlaps(a.board.Footprints[j].GlobalBBox(), 0) {
				a.status.LogIssue(IssueWarning, msgLockedOverlap)
			}
		}
	}
}

// SetDebugLevel selects the Step granularity: at level 0 a step places
// one whole footprint, at level 1 and above it tests a single pose.
func (a *Autoplacer) SetDebugLevel(level int) { a.debug = level }

// Status returns the live run status.
func (a *Autoplacer) Status() *Status { return a.status }

// Board returns the board being placed.
func (a *Autoplacer) Board() *Board { return a.board }

// Step advances the search and returns a progress snapshot. After the
// run has finished it returns the final snapshot once, then nil.
func (a *Autoplacer) Step(margin float64) (*IntermediateState, error) {
	for {
		if a.done {
			if a.finalSent {
				return nil, nil
			}
			a.finalSent = true
			full, err := BuildRatsNest(a.board.Footprints, a.skipNetNames())
			if err != nil {
				return nil, err
			}
			a.fullRatsNest = full
			return a.finalState(), nil
		}

		tested, committed, err := a.advanceOne(margin)
		if err != nil {
			return nil, err
		}
		if committed || (tested && a.debug >= 1) {
			return a.last, nil
		}
	}
}

// PlaceAll drains the search to completion and returns the serialized
// placement status.
func (a *Autoplacer) PlaceAll(margin float64) (string, error) {
	for {
		state, err := a.Step(margin)
		if err != nil {
			return "", err
		}
		if state == nil {
			break
		}
	}
	return a.status.DumpJSON()
}

// advanceOne performs the smallest unit of work: one pose test, one
// commit, or one control transition. It reports which of the first two
// happened so Step knows when to hand out a snapshot.
func (a *Autoplacer) advanceOne(margin float64) (tested, committed bool, err error) {
	a.status.markRunning()

	if a.cur == nil {
		if len(a.placed) == 0 {
			// Nothing on the board yet: anchor the most connected
			// footprint at the origin.
			if len(a.waitlist) == 0 {
				a.done = true
				a.status.markSuccess()
				return false, false, nil
			}
			return false, true, a.commit(a.mostConnectedWaiting(), Pose{})
		}

		if err := a.prepareNextCandidate(); err != nil {
			return false, false, err
		}
		if a.cur == nil {
			return false, false, nil
		}
	}

	return a.stepCurrent(margin)
}

// prepareNextCandidate pops the next footprint to place and initializes
// its ring sweep, or marks the run done when nothing is left or an
// error has already been logged.
func (a *Autoplacer) prepareNextCandidate() error {
	if a.status.Failed() {
		a.done = true
		return nil
	}
	if len(a.waitlist)+len(a.batch) == 0 {
		a.done = true
		a.status.markSuccess()
		return nil
	}

	if len(a.batch) == 0 {
		if err := a.buildBatch(); err != nil {
			return err
		}
	}

	idx := a.batch[0]
	a.batch = a.batch[1:]

	center, err := a.searchCenter(idx)
	if err != nil {
		return err
	}

	a.cur = &candidateSearch{
		idx:      idx,
		staging:  a.board.Footprints[idx].Pose,
		center:   center,
		ring:     ringPoints(center, 0),
		bestCost: math.Inf(1),
	}
	return nil
}

// buildBatch collects the next breadth-first wave: every waiting
// footprint sharing a net with something already placed. When the wave
// is empty the circuit is split; the lowest-reference remaining
// footprint is forced through with a warning unless it is a mounting
// hole.
func (a *Autoplacer) buildBatch() error {
	for i := range a.placed {
		if _, both := a.waitlist[i]; both {
			return fmt.Errorf("place: footprint %s is both placed and waiting",
				a.board.Footprints[i].Reference)
		}
	}

	var batch []int
	for i := range a.waitlist {
		for j := range a.placed {
			if a.board.Footprints[i].SharesNet(a.board.Footprints[j], a.skipNets) {
				batch = append(batch, i)
				break
			}
		}
	}

	if len(batch) == 0 {
		remaining := a.waitlistIndices()
		next := remaining[0]
		if !isMountingHole(a.board.Footprints[next]) {
			a.status.LogIssue(IssueWarning, msgIsolatedComponents)
		}
		batch = []int{next}
	}

	a.board.sortByReference(batch)
	for _, i := range batch {
		delete(a.waitlist, i)
	}
	a.batch = batch
	return nil
}

func isMountingHole(fp *Footprint) bool {
	return len(fp.Name) >= len(mountingHolePrefix) &&
		fp.Name[:len(mountingHolePrefix)] == mountingHolePrefix
}

// searchCenter returns the mean position of all placed pads on nets the
// candidate connects to, or the origin when it connects to nothing.
func (a *Autoplacer) searchCenter(idx int) (geom.Vector2D, error) {
	nets := a.board.Footprints[idx].NetNames(a.skipNets)

	var xs, ys []float64
	for _, i := range a.placedIndices() {
		fp := a.board.Footprints[i]
		for _, pad := range fp.Pads {
			if pad.Net == "" || !nets[pad.Net] {
				continue
			}
			pos, err := GlobalPadPosition(fp, pad)
			if err != nil {
				return geom.Vector2D{}, err
			}
			xs = append(xs, pos.X)
			ys = append(ys, pos.Y)
		}
	}

	if len(xs) == 0 {
		return geom.Vector2D{}, nil
	}
	return geom.Vector2D{
		X: stat.Mean(xs, nil),
		Y: stat.Mean(ys, nil),
	}, nil
}

// stepCurrent tests the next pose of the in-flight candidate, or
// commits when a ring has finished.
func (a *Autoplacer) stepCurrent(margin float64) (tested, committed bool, err error) {
	cur := a.cur
	fp := a.board.Footprints[cur.idx]

	if cur.ringPos >= len(cur.ring) {
		// Ring finished. A feasible pose in the closest ring beats
		// every pose in any farther ring, so stop at the first ring
		// that produced one.
		if cur.best != nil {
			return false, true, a.commit(cur.idx, *cur.best)
		}

		cur.radius += searchStep
		if a.outline != nil &&
			float64(cur.radius) > a.outline.Width && float64(cur.radius) > a.outline.Height {
			a.status.LogIssue(IssueError, msgOutlineTooSmall)
			return false, true, a.commit(cur.idx, cur.staging)
		}
		if cur.radius >= maxSearchRadius {
			a.status.LogIssue(IssueError, msgCouldNotPlace)
			return false, true, a.commit(cur.idx, cur.staging)
		}

		cur.ring = ringPoints(cur.center, cur.radius)
		cur.ringPos = 0
		cur.rotPos = 0
	}

	point := cur.ring[cur.ringPos]
	pose := Pose{X: point.X, Y: point.Y, Rotation: searchRotations[cur.rotPos]}
	cur.tested = append(cur.tested, pose)
	fp.Pose = pose

	bbox := fp.GlobalBBox()
	overlap := a.overlapsPlaced(bbox, margin)
	inOutline := a.outline == nil || a.outline.Contains(bbox)

	nest, err := nearestPlacedSegments(fp, a.placedFootprints(), a.skipNets)
	if err != nil {
		return false, false, err
	}
	if cost := nest.TotalLength(); cost < cur.bestCost && !overlap && inOutline {
		cur.bestCost = cost
		p := pose
		cur.best = &p
	}

	a.last = &IntermediateState{
		CurrentBBox:     &bbox,
		PlacedBBoxes:    a.placedBBoxes(),
		TestedPoses:     append([]Pose(nil), cur.tested...),
		CurrentRatsNest: nest,
		FullRatsNest:    a.fullRatsNest,
		Overlap:         overlap || !inOutline,
	}

	cur.rotPos++
	if cur.rotPos >= len(searchRotations) {
		cur.rotPos = 0
		cur.ringPos++
	}
	return true, false, nil
}

// commit finalizes a footprint at the given pose and records the
// commit snapshot.
func (a *Autoplacer) commit(idx int, pose Pose) error {
	fp := a.board.Footprints[idx]
	fp.Pose = pose

	nest, err := nearestPlacedSegments(fp, a.placedFootprints(), a.skipNets)
	if err != nil {
		return err
	}

	bbox := fp.GlobalBBox()
	var tested []Pose
	if a.cur != nil {
		tested = a.cur.tested
	}

	fp.Placed = true
	delete(a.waitlist, idx)
	a.placed[idx] = struct{}{}
	a.cur = nil

	a.last = &IntermediateState{
		CurrentBBox:     &bbox,
		PlacedBBoxes:    a.placedBBoxes(),
		TestedPoses:     tested,
		CurrentRatsNest: nest,
		FullRatsNest:    a.fullRatsNest,
	}
	return nil
}

// finalState is the snapshot delivered after the last commit.
func (a *Autoplacer) finalState() *IntermediateState {
	return &IntermediateState{
		PlacedBBoxes: a.placedBBoxes(),
		FullRatsNest: a.fullRatsNest,
	}
}

// mostConnectedWaiting picks the waiting footprint touching the most
// distinct scored nets; ties go to the lowest reference.
func (a *Autoplacer) mostConnectedWaiting() int {
	indices := a.waitlistIndices()
	best := indices[0]
	bestCount := -1
	for _, i := range indices {
		if count := len(a.board.Footprints[i].NetNames(a.skipNets)); count > bestCount {
			best = i
			bestCount = count
		}
	}
	return best
}

// overlapsPlaced reports whether the box collides with any committed
// footprint once both are inflated by margin.
func (a *Autoplacer) overlapsPlaced(bbox geom.BoundingBox, margin float64) bool {
	for i := range a.placed {
		if bbox.Overlaps(a.board.Footprints[i].GlobalBBox(), margin) {
			return true
		}
	}
	return false
}

func (a *Autoplacer) placedIndices() []int {
	indices := make([]int, 0, len(a.placed))
	for i := range a.placed {
		indices = append(indices, i)
	}
	a.board.sortByReference(indices)
	return indices
}

func (a *Autoplacer) waitlistIndices() []int {
	indices := make([]int, 0, len(a.waitlist))
	for i := range a.waitlist {
		indices = append(indices, i)
	}
	a.board.sortByReference(indices)
	return indices
}

func (a *Autoplacer) placedFootprints() []*Footprint {
	indices := a.placedIndices()
	footprints := make([]*Footprint, 0, len(indices))
	for _, i := range indices {
		footprints = append(footprints, a.board.Footprints[i])
	}
	return footprints
}

func (a *Autoplacer) placedBBoxes() []geom.BoundingBox {
	indices := a.placedIndices()
	boxes := make([]geom.BoundingBox, 0, len(indices))
	for _, i := range indices {
		boxes = append(boxes, a.board.Footprints[i].GlobalBBox())
	}
	return boxes
}

func (a *Autoplacer) skipNetNames() []string {
	names := make([]string, 0, len(a.skipNets))
	for name := range a.skipNets {
		names = append(names, name)
	}
	return names
}

// ringPoints samples the perimeter of the axis-aligned square of the
// given half-width around center, stepping 1mm between samples. Radius
// zero yields just the center itself.
func ringPoints(center geom.Vector2D, radius int) []geom.Vector2D {
	if radius == 0 {
		return []geom.Vector2D{center}
	}

	r := float64(radius)
	points := make([]geom.Vector2D, 0, 8*radius)

	// Walk the square counter-clockwise from the top-right corner.
	p := geom.Vector2D{X: center.X + r, Y: center.Y - r}
	points = append(points, p)
	for i := 0; i < 2*radius; i++ {
		p.X--
		points = append(points, p)
	}
	for i := 0; i < 2*radius; i++ {
		p.Y++
		points = append(points, p)
	}
	for i := 0; i < 2*radius; i++ {
		p.X++
		points = append(points, p)
	}
	// Skip the final step so the start corner is not revisited.
	for i := 0; i < 2*radius-1; i++ {
		p.Y--
		points = append(points, p)
	}
	return points
}
