// Package pcb implements a KiCad board file codec: parsing .kicad_pcb
// S-expression files into a typed model, writing the model back out, and
// deriving the board outline used for placement.
package pcb

// Position is a 2D coordinate in millimeters, KiCad board frame.
type Position struct {
	X float64
	Y float64
}

// PositionAngle is a position with an optional rotation in degrees.
type PositionAngle struct {
	X     float64
	Y     float64
	Angle float64
}

// Size is a width/height pair in millimeters.
type Size struct {
	Width  float64
	Height float64
}

// Net is a named electrical net.
type Net struct {
	Number int
	Name   string
}

// NetMap provides net lookups by number and by name.
type NetMap struct {
	byNumber map[int]*Net
	byName   map[string]*Net
}

// NewNetMap builds a NetMap over the given nets.
func NewNetMap(nets []Net) *NetMap {
	m := &NetMap{
		byNumber: make(map[int]*Net, len(nets)),
		byName:   make(map[string]*Net, len(nets)),
	}
	for i := range nets {
		net := &nets[i]
		m.byNumber[net.Number] = net
		m.byName[net.Name] = net
	}
	return m
}

// GetByNumber returns the net with the given number.
func (m *NetMap) GetByNumber(number int) (*Net, bool) {
	net, ok := m.byNumber[number]
	return net, ok
}

// GetByName returns the net with the given name.
func (m *NetMap) GetByName(name string) (*Net, bool) {
	net, ok := m.byName[name]
	return net, ok
}

// Layer is one board layer definition.
type Layer struct {
	Number int
	Name   string
	Type   string
}

// General holds board-level metadata.
type General struct {
	Thickness float64
	Title     string
	Date      string
	Revision  string
	Company   string
}

// Pad is a footprint pad. Position is relative to the footprint origin.
type Pad struct {
	Number   string
	Type     string // thru_hole, smd, connect, np_thru_hole
	Shape    string // circle, rect, oval, roundrect, trapezoid, custom
	Position PositionAngle
	Size     Size
	Drill    float64
	Layers   []string
	Net      *Net
}

// FpText is a footprint text item (reference, value, user text).
type FpText struct {
	Type     string
	Text     string
	Position PositionAngle
	Layer    string
}

// GraphicLine is a straight graphic segment.
type GraphicLine struct {
	Start Position
	End   Position
	Layer string
	Width float64
}

// GraphicRect is an axis-aligned graphic rectangle.
type GraphicRect struct {
	Start Position
	End   Position
	Layer string
	Width float64
}

// GraphicCircle is a graphic circle given by center and a point on the
// circumference.
type GraphicCircle struct {
	Center Position
	End    Position
	Layer  string
	Width  float64
}

// GraphicArc is a graphic arc given by start, mid and end points.
type GraphicArc struct {
	Start Position
	Mid   Position
	End   Position
	Layer string
	Width float64
}

// Graphics groups the drawable primitives of a board or footprint.
type Graphics struct {
	Lines   []GraphicLine
	Rects   []GraphicRect
	Circles []GraphicCircle
	Arcs    []GraphicArc
}

// Footprint is one component instance on the board.
type Footprint struct {
	Library   string
	Name      string
	Layer     string
	Position  PositionAngle
	Locked    bool
	Reference string
	Value     string
	UUID      string
	Texts     []FpText
	Graphics  Graphics
	Pads      []*Pad
}

// Track is one copper segment.
type Track struct {
	Start Position
	End   Position
	Width float64
	Layer string
	Net   *Net
}

// Via is one plated through hole connecting copper layers.
type Via struct {
	Position Position
	Size     float64
	Drill    float64
	Layers   []string
	Net      *Net
}

// Board is a parsed .kicad_pcb file.
type Board struct {
	Version    int
	Generator  string
	General    General
	Layers     []Layer
	Nets       []Net
	Graphics   Graphics
	Footprints []*Footprint
	Tracks     []Track
	Vias       []Via
}

// GetNetByName returns the net with the given name.
func (b *Board) GetNetByName(name string) (*Net, bool) {
	for i := range b.Nets {
		if b.Nets[i].Name == name {
			return &b.Nets[i], true
		}
	}
	return nil, false
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
