// Package subckt parses the subcircuit description format, a compact
// text alternative to a full KiCad board for feeding the placement
// engine:
//
//	board "demo" {
//	  outline 50 40
//	  component "R1" footprint "R_0603" {
//	    pad "1" at -0.8 0 size 0.9 1 net "N1"
//	    pad "2" at 0.8 0 size 0.9 1 net "GND"
//	  }
//	  component "U1" footprint "SOIC-8" at 10 10 rot 90 locked {
//	    pad "1" at -1.9 -1.9 size 0.6 1.5 net "N1"
//	  }
//	}
package subckt

// File is the root of a parsed subcircuit description.
type File struct {
	Board *BoardDecl `parser:"@@"`
}

// BoardDecl is the single top-level board block.
type BoardDecl struct {
	Name    string        `parser:"KwBoard @String LBrace"`
	Entries []*BoardEntry `parser:"@@* RBrace"`
}

// BoardEntry is one item inside a board block.
type BoardEntry struct {
	Outline   *OutlineDecl   `parser:"  @@"`
	Component *ComponentDecl `parser:"| @@"`
}

// OutlineDecl sets the allowed placement area, anchored at the origin.
type OutlineDecl struct {
	Width  float64 `parser:"KwOutline @Number"`
	Height float64 `parser:"@Number"`
}

// ComponentDecl declares one footprint instance. Position, rotation and
// the locked marker are optional; a component without them starts
// unplaced.
type ComponentDecl struct {
	Reference string     `parser:"KwComponent @String"`
	Footprint string     `parser:"KwFootprint @String"`
	At        *AtClause  `parser:"@@?"`
	Rot       *float64   `parser:"(KwRot @Number)?"`
	Locked    bool       `parser:"@KwLocked?"`
	Pads      []*PadDecl `parser:"LBrace @@* RBrace"`
}

// AtClause is an explicit position in board coordinates.
type AtClause struct {
	X float64 `parser:"KwAt @Number"`
	Y float64 `parser:"@Number"`
}

// PadDecl declares one pad, positioned relative to the component
// origin. A pad without a net clause is unconnected.
type PadDecl struct {
	Number string  `parser:"KwPad @String"`
	X      float64 `parser:"KwAt @Number"`
	Y      float64 `parser:"@Number"`
	Width  float64 `parser:"KwSize @Number"`
	Height float64 `parser:"@Number"`
	Net    string  `parser:"(KwNet @String)?"`
}
