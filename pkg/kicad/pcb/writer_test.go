package pcb

import (
	"bytes"
	"strings"
	"testing"
)

// Round-trip: whatever Write emits must parse back to the same model
// fields the placement pipeline cares about.
func TestWriteRoundTrip(t *testing.T) {
	board, err := Parse(strings.NewReader(minimalBoard))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	// Simulate the autoplacer moving a footprint
	board.Footprints[1].Position = PositionAngle{X: 33.5, Y: 21.25, Angle: 270}

	var buf bytes.Buffer
	if err := board.Write(&buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	reparsed, err := Parse(&buf)
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}

	if reparsed.Version != board.Version {
		t.Errorf("Version = %d, want %d", reparsed.Version, board.Version)
	}
	if len(reparsed.Nets) != len(board.Nets) {
		t.Fatalf("got %d nets, want %d", len(reparsed.Nets), len(board.Nets))
	}
	if len(reparsed.Footprints) != len(board.Footprints) {
		t.Fatalf("got %d footprints, want %d", len(reparsed.Footprints), len(board.Footprints))
	}

	for i, fp := range board.Footprints {
		got := reparsed.Footprints[i]
		if got.Position != fp.Position {
			t.Errorf("footprint %d position = %+v, want %+v", i, got.Position, fp.Position)
		}
		if got.Reference != fp.Reference {
			t.Errorf("footprint %d reference = %q, want %q", i, got.Reference, fp.Reference)
		}
		if got.Locked != fp.Locked {
			t.Errorf("footprint %d locked = %v, want %v", i, got.Locked, fp.Locked)
		}
		if len(got.Pads) != len(fp.Pads) {
			t.Fatalf("footprint %d: got %d pads, want %d", i, len(got.Pads), len(fp.Pads))
		}
		for j, pad := range fp.Pads {
			gp := got.Pads[j]
			if gp.Position != pad.Position || gp.Size != pad.Size {
				t.Errorf("footprint %d pad %d = %+v/%+v, want %+v/%+v",
					i, j, gp.Position, gp.Size, pad.Position, pad.Size)
			}
			wantNet := ""
			if pad.Net != nil {
				wantNet = pad.Net.Name
			}
			gotNet := ""
			if gp.Net != nil {
				gotNet = gp.Net.Name
			}
			if gotNet != wantNet {
				t.Errorf("footprint %d pad %d net = %q, want %q", i, j, gotNet, wantNet)
			}
		}
	}

	// The outline survives too
	outline, ok := reparsed.Outline()
	if !ok {
		t.Fatal("outline lost in round trip")
	}
	want, _ := board.Outline()
	if !outline.ApproxEqual(want) {
		t.Errorf("outline = %+v, want %+v", outline, want)
	}

	if len(reparsed.Tracks) != 1 || len(reparsed.Vias) != 1 {
		t.Errorf("copper lost: %d tracks, %d vias", len(reparsed.Tracks), len(reparsed.Vias))
	}
}

func TestWriteQuotesSpecialCharacters(t *testing.T) {
	board := &Board{
		Version:   MinSupportedVersion,
		Generator: "pcbnew",
		Nets:      []Net{{Number: 1, Name: `net "a"`}},
	}

	var buf bytes.Buffer
	if err := board.Write(&buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	reparsed, err := Parse(&buf)
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}
	if len(reparsed.Nets) != 1 || reparsed.Nets[0].Name != `net "a"` {
		t.Errorf("nets = %+v", reparsed.Nets)
	}
}
