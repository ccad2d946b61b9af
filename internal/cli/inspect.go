package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tbeckers/floatdeck/pkg/bom"
	"github.com/tbeckers/floatdeck/pkg/coords"
	"github.com/tbeckers/floatdeck/pkg/grid"
)

// newCheckCmd creates the check command: connectivity over all levels.
func newCheckCmd(r *run) *cobra.Command {
	return &cobra.Command{
		Use:   "check [layout]",
		Short: "Check layout connectivity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadLayout(cmd.Context(), r, args[0])
			if err != nil {
				return err
			}

			result := g.CheckConnectivity()
			if result.Valid {
				printSuccess("all levels connected (%d modules)", g.Len())
				return nil
			}
			printError("layout has disconnected modules")
			printViolations(result.Violations)
			return fmt.Errorf("connectivity check failed")
		},
	}
}

// newNearbyCmd creates the nearby command: suggest valid placements
// around a target cell.
func newNearbyCmd(r *run) *cobra.Command {
	var at, typ, orient string
	var radius int

	cmd := &cobra.Command{
		Use:   "nearby [layout]",
		Short: "Suggest valid positions near a cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(at)
			if err != nil {
				return err
			}
			moduleType, err := grid.ParseModuleType(typ)
			if err != nil {
				return err
			}
			orientation, err := grid.ParseOrientation(orient)
			if err != nil {
				return err
			}

			g, err := loadLayout(cmd.Context(), r, args[0])
			if err != nil {
				return err
			}

			positions := g.FindNearbyValidPositions(pos, moduleType, orientation, radius)
			if len(positions) == 0 {
				printWarning("no valid positions within radius %d of %s", radius, pos)
				return nil
			}
			printInfo("%d valid positions for a %s module near %s:", len(positions), moduleType, pos)
			for _, p := range positions {
				printDetail("%s", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "target position x,z or x,y,z (required)")
	cmd.Flags().StringVarP(&typ, "type", "t", "compact", "module type: compact, extended")
	cmd.Flags().StringVarP(&orient, "orientation", "r", "north", "orientation: north, east, south, west")
	cmd.Flags().IntVar(&radius, "radius", 3, "search radius in cells")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

// newTable returns a bordered table in the CLI's house style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// newStatsCmd creates the stats command.
func newStatsCmd(r *run) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [layout]",
		Short: "Show layout statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadLayout(cmd.Context(), r, args[0])
			if err != nil {
				return err
			}
			stats := g.Statistics()

			fmt.Println(StyleTitle.Render(args[0]))
			fmt.Printf("%d modules, %d/%d cells occupied (%.1f%%)\n",
				stats.Modules, stats.OccupiedCells, stats.TotalCells, stats.Utilization*100)

			extent := coords.ForGrid(g, coords.DefaultViewScale).GridExtent(g.Width(), g.Depth(), g.Levels())
			printDetail("physical extent %.1f x %.1f x %.1f m", extent.Width/1e3, extent.Depth/1e3, extent.Height/1e3)

			t := newTable("Level", "Modules")
			for _, level := range slices.Sorted(maps.Keys(stats.ByLevel)) {
				t.Row(fmt.Sprintf("%d", level), fmt.Sprintf("%d", stats.ByLevel[level]))
			}
			fmt.Println(t.Render())

			t = newTable("Type", "Count")
			for _, typ := range slices.Sorted(maps.Keys(stats.ByType)) {
				t.Row(typ, fmt.Sprintf("%d", stats.ByType[typ]))
			}
			fmt.Println(t.Render())

			t = newTable("Color", "Count")
			for _, color := range slices.Sorted(maps.Keys(stats.ByColor)) {
				t.Row(color, fmt.Sprintf("%d", stats.ByColor[color]))
			}
			fmt.Println(t.Render())
			return nil
		},
	}
}

// newBOMCmd creates the bom command: bill of materials for ordering.
func newBOMCmd(r *run) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "bom [layout]",
		Short: "Show the bill of materials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadLayout(cmd.Context(), r, args[0])
			if err != nil {
				return err
			}
			bill := bom.Build(g)

			if plain {
				fmt.Print(bill.Summary())
				return nil
			}

			t := newTable("Qty", "Type", "Color", "Unit size")
			for _, line := range bill.Lines {
				t.Row(fmt.Sprintf("%d", line.Quantity), line.Type, line.Color, line.UnitSize.String())
			}
			fmt.Println(t.Render())
			fmt.Printf("%d modules, %.2f m² deck area (%.2f m² at the water line)\n",
				bill.TotalModules, bill.DeckArea/1e6, bill.WaterlineArea/1e6)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "plain text output for piping")
	return cmd
}
