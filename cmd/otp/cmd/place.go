package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/geom"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/place"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/subckt"
)

var (
	placeMargin   float64
	placeOutline  string
	placeSkipNets []string
	placeDebug    int
	placeOut      string
)

var placeCmd = &cobra.Command{
	Use:   "place <board_file>",
	Short: "Autoplace the components of a board",
	Long: `Runs the component autoplacer on a KiCad board (.kicad_pcb) or a
subcircuit description (.ckt) and prints the placement status as JSON.

The board outline is taken from the Edge.Cuts layer (KiCad) or the
outline declaration (.ckt); --outline overrides both. Without an
outline the placement area is unbounded.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlace,
}

func init() {
	rootCmd.AddCommand(placeCmd)
	placeCmd.Flags().Float64Var(&placeMargin, "margin", 0.25, "minimum clearance between footprints in mm")
	placeCmd.Flags().StringVar(&placeOutline, "outline", "", "override the placement area, WIDTHxHEIGHT in mm (e.g. 50x40)")
	placeCmd.Flags().StringSliceVar(&placeSkipNets, "skip-net", nil, "nets to ignore for connectivity (default GND)")
	placeCmd.Flags().IntVar(&placeDebug, "debug", 0, "step granularity: 0 per footprint, 1 per tested pose")
	placeCmd.Flags().StringVar(&placeOut, "out", "", "write the placed board to this .kicad_pcb file")
}

func runPlace(cmd *cobra.Command, args []string) error {
	filename := args[0]

	board, kicadBoard, outline, err := loadBoard(filename)
	if err != nil {
		return err
	}

	if placeOutline != "" {
		override, err := parseOutline(placeOutline)
		if err != nil {
			return err
		}
		outline = override
	}

	if verbose {
		fmt.Printf("Loaded %s: %d footprints, %d locked\n",
			filename, len(board.Footprints), len(board.LockedComponents()))
		if outline != nil {
			fmt.Printf("Placement area: %.2f x %.2f mm\n", outline.Width, outline.Height)
		} else {
			fmt.Println("Placement area: unbounded")
		}
	}

	placer, err := place.New(board, outline, placeSkipNets...)
	if err != nil {
		return fmt.Errorf("error preparing placement: %w", err)
	}
	placer.SetDebugLevel(placeDebug)

	steps := 0
	for {
		state, err := placer.Step(placeMargin)
		if err != nil {
			return fmt.Errorf("error during placement: %w", err)
		}
		if state == nil {
			break
		}
		steps++
		if verbose && state.CurrentBBox != nil {
			fmt.Printf("  step %d: %d placed, candidate at (%.2f, %.2f)\n",
				steps, len(state.PlacedBBoxes), state.CurrentBBox.X, state.CurrentBBox.Y)
		}
	}

	out, err := placer.Status().DumpJSON()
	if err != nil {
		return err
	}
	fmt.Println(out)

	if placeOut != "" {
		if kicadBoard == nil {
			return fmt.Errorf("--out requires a .kicad_pcb input, not %s", filepath.Ext(filename))
		}
		if err := place.ApplyPlacement(board, kicadBoard); err != nil {
			return err
		}
		if err := kicadBoard.WriteFile(placeOut); err != nil {
			return fmt.Errorf("error writing placed board: %w", err)
		}
		if verbose {
			fmt.Printf("Placed board written to %s\n", placeOut)
		}
	}

	return nil
}

// loadBoard reads either input format. The KiCad board is returned
// alongside the placement model so results can be written back; it is
// nil for subcircuit input.
func loadBoard(filename string) (*place.Board, *pcb.Board, *geom.BoundingBox, error) {
	if strings.EqualFold(filepath.Ext(filename), ".ckt") {
		parser, err := subckt.NewParser()
		if err != nil {
			return nil, nil, nil, err
		}
		file, err := parser.ParseFile(filename)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("error parsing circuit: %w", err)
		}
		board, outline, err := file.Build()
		if err != nil {
			return nil, nil, nil, err
		}
		return board, nil, outline, nil
	}

	kicadBoard, err := pcb.ParseFile(filename)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error parsing board: %w", err)
	}
	board, err := place.FromKiCad(kicadBoard)
	if err != nil {
		return nil, nil, nil, err
	}

	var outline *geom.BoundingBox
	if box, ok := kicadBoard.Outline(); ok {
		outline = &box
	}
	return board, kicadBoard, outline, nil
}

// parseOutline reads a WIDTHxHEIGHT specification like "50x40".
func parseOutline(spec string) (*geom.BoundingBox, error) {
	var width, height float64
	if _, err := fmt.Sscanf(spec, "%fx%f", &width, &height); err != nil {
		return nil, fmt.Errorf("invalid outline %q, expected WIDTHxHEIGHT: %w", spec, err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid outline %q: area must be positive", spec)
	}
	return &geom.BoundingBox{Width: width, Height: height}, nil
}
