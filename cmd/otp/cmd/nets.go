package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePlace/pkg/place"
)

var netsCmd = &cobra.Command{
	Use:   "nets <board_file>",
	Short: "Show net and ratsnest information",
	Long: `Lists the nets of a board with pad counts, ratsnest segment counts
and total Manhattan length at the current footprint positions.`,
	Args: cobra.ExactArgs(1),
	RunE: runNets,
}

func init() {
	rootCmd.AddCommand(netsCmd)
}

func runNets(cmd *cobra.Command, args []string) error {
	board, _, _, err := loadBoard(args[0])
	if err != nil {
		return err
	}

	netList, err := place.BuildNetList(board.Footprints)
	if err != nil {
		return fmt.Errorf("error building net list: %w", err)
	}
	nest, err := place.BuildRatsNest(board.Footprints, nil)
	if err != nil {
		return fmt.Errorf("error building ratsnest: %w", err)
	}

	names := make([]string, 0, len(netList))
	for name := range netList {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-24s %6s %10s %12s\n", "Net", "Pads", "Segments", "Length (mm)")
	for _, name := range names {
		segments := nest[name]
		length := 0.0
		for _, segment := range segments {
			length += segment.ManhattanLength()
		}
		fmt.Printf("%-24s %6d %10d %12.2f\n", name, len(netList[name]), len(segments), length)
	}

	fmt.Printf("\n%d nets, %d footprints, total ratsnest length %.2f mm\n",
		len(netList), len(board.Footprints), nest.TotalLength())
	return nil
}
