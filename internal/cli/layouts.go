package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbeckers/floatdeck/pkg/grid"
	"github.com/tbeckers/floatdeck/pkg/layoutio"
	"github.com/tbeckers/floatdeck/pkg/store"
)

// layoutStore opens the CLI's file-backed layout store.
func layoutStore(r *run) (*store.FileStore, error) {
	return store.NewFileStore("")
}

// loadLayout fetches a named layout and rebuilds the engine grid with
// the configured options.
func loadLayout(ctx context.Context, r *run, name string) (*grid.Grid, error) {
	st, err := layoutStore(r)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	rec, err := st.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return grid.FromRecord(rec, r.cfg.Grid.GridOptions()...)
}

// saveLayout persists the grid back under name.
func saveLayout(ctx context.Context, r *run, name string, g *grid.Grid) error {
	st, err := layoutStore(r)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Put(ctx, name, g.ToRecord())
}

// parsePosition parses "x,y,z" into a grid position. Two components are
// accepted as "x,z" on level 0.
func parsePosition(s string) (grid.Position, error) {
	parts := strings.Split(s, ",")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return grid.Position{}, fmt.Errorf("invalid position %q: %w", s, err)
		}
		nums[i] = n
	}
	switch len(nums) {
	case 2:
		return grid.Position{X: nums[0], Y: 0, Z: nums[1]}, nil
	case 3:
		return grid.Position{X: nums[0], Y: nums[1], Z: nums[2]}, nil
	default:
		return grid.Position{}, fmt.Errorf("invalid position %q: want x,z or x,y,z", s)
	}
}

// newNewCmd creates the new command: create an empty named layout.
func newNewCmd(r *run) *cobra.Command {
	var width, depth, levels int
	var cellW, cellH, cellD float64

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new empty layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gc := r.cfg.Grid
			if !cmd.Flags().Changed("width") {
				width = gc.Width
			}
			if !cmd.Flags().Changed("depth") {
				depth = gc.Depth
			}
			if !cmd.Flags().Changed("levels") {
				levels = gc.Levels
			}
			cell := gc.CellSize()
			if cmd.Flags().Changed("cell-width") {
				cell.Width = cellW
			}
			if cmd.Flags().Changed("cell-height") {
				cell.Height = cellH
			}
			if cmd.Flags().Changed("cell-depth") {
				cell.Depth = cellD
			}

			g, err := grid.New(width, depth, levels, cell, gc.GridOptions()...)
			if err != nil {
				return err
			}
			if err := saveLayout(cmd.Context(), r, args[0], g); err != nil {
				return err
			}
			printSuccess("created layout %s (%dx%d, %d levels)", args[0], width, depth, levels)
			printDetail("cell size %s", cell)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "grid width in cells")
	cmd.Flags().IntVar(&depth, "depth", 0, "grid depth in cells")
	cmd.Flags().IntVar(&levels, "levels", 0, "number of stacking levels")
	cmd.Flags().Float64Var(&cellW, "cell-width", 0, "cell width in mm")
	cmd.Flags().Float64Var(&cellH, "cell-height", 0, "level height in mm")
	cmd.Flags().Float64Var(&cellD, "cell-depth", 0, "cell depth in mm")

	return cmd
}

// newListCmd creates the list command.
func newListCmd(r *run) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := layoutStore(r)
			if err != nil {
				return err
			}
			defer st.Close()

			names, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("no layouts yet; create one with 'floatdeck new <name>'")
				return nil
			}
			for _, name := range names {
				g, err := loadLayout(cmd.Context(), r, name)
				if err != nil {
					printWarning("%s (unreadable: %v)", name, err)
					continue
				}
				fmt.Printf("%s %s\n", StyleValue.Render(name),
					StyleDim.Render(fmt.Sprintf("%dx%dx%d, %d modules", g.Width(), g.Depth(), g.Levels(), g.Len())))
			}
			return nil
		},
	}
}

// newDeleteCmd creates the delete command.
func newDeleteCmd(r *run) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := layoutStore(r)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("deleted layout %s", args[0])
			return nil
		},
	}
}

// newExportCmd creates the export command: write a layout as JSON.
func newExportCmd(r *run) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [name]",
		Short: "Export a layout to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadLayout(cmd.Context(), r, args[0])
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = args[0] + ".json"
			}
			if err := layoutio.ExportJSON(g, path); err != nil {
				return err
			}
			printSuccess("exported %s", args[0])
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.json)")
	return cmd
}

// newImportCmd creates the import command: load a JSON file into the store.
func newImportCmd(r *run) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a JSON layout file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := layoutio.ImportJSON(args[0], r.cfg.Grid.GridOptions()...)
			if err != nil {
				return err
			}
			target := name
			if target == "" {
				target = strings.TrimSuffix(filepath.Base(args[0]), ".json")
			}
			if err := saveLayout(cmd.Context(), r, target, g); err != nil {
				return err
			}
			printSuccess("imported %s (%d modules)", target, g.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "layout name (default derived from file name)")
	return cmd
}
