package pcb

import (
	"strings"
	"testing"
)

const minimalBoard = `(kicad_pcb
  (version 20221018)
  (generator "pcbnew")
  (general
    (thickness 1.6)
    (title "Test Board")
  )
  (layers
    (0 "F.Cu" signal)
    (31 "B.Cu" signal)
    (44 "Edge.Cuts" user)
  )
  (net 0 "")
  (net 1 "GND")
  (net 2 "N1")
  (gr_rect (start 0 0) (end 50 40) (layer "Edge.Cuts") (width 0.1))
  (footprint "Resistor_SMD:R_0603" locked
    (layer "F.Cu")
    (at 10 10 90)
    (tstamp "be6213f3-5c13-4b1e-8708-3ed1d74e3fb5")
    (fp_text reference "R1" (at 0 -1.5) (layer "F.SilkS"))
    (fp_text value "10k" (at 0 1.5) (layer "F.Fab"))
    (fp_line (start -0.8 -0.4) (end 0.8 -0.4) (layer "F.SilkS") (width 0.12))
    (pad "1" smd rect (at -0.8 0) (size 0.9 0.95) (layers "F.Cu" "F.Paste" "F.Mask") (net 2 "N1"))
    (pad "2" smd rect (at 0.8 0) (size 0.9 0.95) (layers "F.Cu" "F.Paste" "F.Mask") (net 1 "GND"))
  )
  (footprint "Capacitor_SMD:C_0603" (layer "F.Cu") (at 20 12)
    (property "Reference" "C1")
    (property "Value" "100n")
    (pad "1" smd rect (at -0.75 0) (size 0.8 0.9) (layers "F.Cu") (net 2 "N1"))
    (pad "2" smd rect (at 0.75 0) (size 0.8 0.9) (layers "F.Cu") (net 0 ""))
  )
  (segment (start 10 10) (end 20 12) (width 0.25) (layer "F.Cu") (net 2))
  (via (at 15 11) (size 0.8) (drill 0.4) (layers "F.Cu" "B.Cu") (net 1))
)`

func TestParseMinimalBoard(t *testing.T) {
	board, err := Parse(strings.NewReader(minimalBoard))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if board.Version != 20221018 {
		t.Errorf("Version = %d, want 20221018", board.Version)
	}
	if board.Generator != "pcbnew" {
		t.Errorf("Generator = %q, want pcbnew", board.Generator)
	}
	if board.General.Thickness != 1.6 {
		t.Errorf("Thickness = %v, want 1.6", board.General.Thickness)
	}
	if board.General.Title != "Test Board" {
		t.Errorf("Title = %q", board.General.Title)
	}
	if len(board.Layers) != 3 {
		t.Errorf("got %d layers, want 3", len(board.Layers))
	}
	if len(board.Nets) != 3 {
		t.Errorf("got %d nets, want 3", len(board.Nets))
	}
	if len(board.Footprints) != 2 {
		t.Fatalf("got %d footprints, want 2", len(board.Footprints))
	}
	if len(board.Tracks) != 1 || len(board.Vias) != 1 {
		t.Errorf("got %d tracks, %d vias, want 1 each", len(board.Tracks), len(board.Vias))
	}
}

func TestParseFootprintDetails(t *testing.T) {
	board, err := Parse(strings.NewReader(minimalBoard))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	r1 := board.Footprints[0]
	if r1.Library != "Resistor_SMD" || r1.Name != "R_0603" {
		t.Errorf("library:name = %q:%q", r1.Library, r1.Name)
	}
	if r1.Reference != "R1" {
		t.Errorf("Reference = %q, want R1", r1.Reference)
	}
	if r1.Value != "10k" {
		t.Errorf("Value = %q, want 10k", r1.Value)
	}
	if !r1.Locked {
		t.Error("R1 should be locked")
	}
	if r1.Position.X != 10 || r1.Position.Y != 10 || r1.Position.Angle != 90 {
		t.Errorf("Position = %+v", r1.Position)
	}
	if r1.UUID != "be6213f3-5c13-4b1e-8708-3ed1d74e3fb5" {
		t.Errorf("UUID = %q", r1.UUID)
	}
	if len(r1.Graphics.Lines) != 1 {
		t.Errorf("got %d fp_lines, want 1", len(r1.Graphics.Lines))
	}
	if len(r1.Pads) != 2 {
		t.Fatalf("got %d pads, want 2", len(r1.Pads))
	}
	pad := r1.Pads[1]
	if pad.Number != "2" || pad.Type != "smd" || pad.Shape != "rect" {
		t.Errorf("pad = %+v", pad)
	}
	if pad.Net == nil || pad.Net.Name != "GND" {
		t.Errorf("pad net = %+v, want GND", pad.Net)
	}

	// KiCad 7+ property style reference
	c1 := board.Footprints[1]
	if c1.Reference != "C1" || c1.Value != "100n" {
		t.Errorf("C1 reference/value = %q/%q", c1.Reference, c1.Value)
	}
	if c1.Locked {
		t.Error("C1 should not be locked")
	}
	// net 0 has an empty name and still resolves
	if c1.Pads[1].Net == nil || c1.Pads[1].Net.Number != 0 {
		t.Errorf("C1 pad 2 net = %+v", c1.Pads[1].Net)
	}
}

func TestParseOutline(t *testing.T) {
	board, err := Parse(strings.NewReader(minimalBoard))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	outline, ok := board.Outline()
	if !ok {
		t.Fatal("expected an outline")
	}
	if outline.X != 0 || outline.Y != 0 || outline.Width != 50 || outline.Height != 40 {
		t.Errorf("outline = %+v", outline)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"not a board", `(kicad_sch (version 20230121))`},
		{"missing version", `(kicad_pcb (generator "pcbnew"))`},
		{"version too old", `(kicad_pcb (version 20171130))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLockedAttributeDialects(t *testing.T) {
	const board = `(kicad_pcb
  (version 20221018)
  (footprint "X" (layer "F.Cu") (at 0 0) (locked yes)
    (pad "1" smd rect (at 0 0) (size 1 1) (layers "F.Cu"))
  )
  (footprint "Y" (layer "F.Cu") (at 5 5)
    (pad "1" smd rect (at 0 0) (size 1 1) (layers "F.Cu"))
  )
)`

	parsed, err := Parse(strings.NewReader(board))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !parsed.Footprints[0].Locked {
		t.Error("(locked yes) footprint should be locked")
	}
	if parsed.Footprints[1].Locked {
		t.Error("plain footprint should not be locked")
	}
}
