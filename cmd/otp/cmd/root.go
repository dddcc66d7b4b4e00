package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "otp",
	Short: "OpenTracePlace - PCB component autoplacement tools",
	Long: `OpenTracePlace (otp) arranges the components of a PCB automatically:
connected footprints are pulled close together without overlapping,
inside the board outline when one is available.

Examples:
  otp place board.kicad_pcb --out placed.kicad_pcb   # Place and save a KiCad board
  otp place circuit.ckt --margin 0.5                 # Place a subcircuit description
  otp nets board.kicad_pcb                           # Show net and ratsnest summary`,
	Version: "0.3.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
