package cli

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/tbeckers/floatdeck/pkg/grid"
)

// reportRejection prints the violation list for a failed placement and
// returns the error unchanged so the command exits non-zero.
func reportRejection(err error) error {
	var rej *grid.RejectionError
	if stderrors.As(err, &rej) {
		printError("placement rejected")
		printViolations(rej.Result.Violations)
	}
	return err
}

// newPlaceCmd creates the place command.
func newPlaceCmd(r *run) *cobra.Command {
	var at, typ, color, orient string

	cmd := &cobra.Command{
		Use:   "place [layout]",
		Short: "Place a module on a layout",
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
			moduleColor, err := grid.ParseColor(color)
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
			next, m, err := g.PlaceModule(pos, moduleType, moduleColor, orientation)
			if err != nil {
				return reportRejection(err)
			}
			if err := saveLayout(cmd.Context(), r, args[0], next); err != nil {
				return err
			}
			printSuccess("placed %s %s at %s", colorSwatch(m.Color()), m.Type(), m.Position())
			printDetail("id %s", m.ID())
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "grid position x,z or x,y,z (required)")
	cmd.Flags().StringVarP(&typ, "type", "t", "compact", "module type: compact, extended")
	cmd.Flags().StringVarP(&color, "color", "c", "slate", "module color: slate, azure, sand, moss, coral")
	cmd.Flags().StringVarP(&orient, "orientation", "r", "north", "orientation: north, east, south, west")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

// newRemoveCmd creates the remove command. Modules can be addressed by
// identity or by any cell of their footprint.
func newRemoveCmd(r *run) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "remove [layout] [module-id]",
		Short: "Remove a module from a layout",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadLayout(cmd.Context(), r, args[0])
			if err != nil {
				return err
			}

			var next *grid.Grid
			switch {
			case len(args) == 2:
				next, err = g.RemoveModule(args[1])
			case at != "":
				var pos grid.Position
				pos, err = parsePosition(at)
				if err != nil {
					return err
				}
				next, err = g.RemoveModuleAt(pos)
			default:
				return stderrors.New("specify a module id or --at position")
			}
			if err != nil {
				return err
			}

			if err := saveLayout(cmd.Context(), r, args[0], next); err != nil {
				return err
			}
			printSuccess("removed module (%d remaining)", next.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "remove by grid position x,z or x,y,z")
	return cmd
}

// newMoveCmd creates the move command.
func newMoveCmd(r *run) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "move [layout] [module-id]",
		Short: "Move a module to a new position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(to)
			if err != nil {
				return err
			}
			g, err := loadLayout(cmd.Context(), r, args[0])
			if err != nil {
				return err
			}
			next, err := g.MoveModule(args[1], pos)
			if err != nil {
				return reportRejection(err)
			}
			if err := saveLayout(cmd.Context(), r, args[0], next); err != nil {
				return err
			}
			printSuccess("moved %s %s %s", args[1], iconArrow, pos)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "target position x,z or x,y,z (required)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// newRotateCmd creates the rotate command. Without --orientation the
// module turns 90° clockwise.
func newRotateCmd(r *run) *cobra.Command {
	var orient string

	cmd := &cobra.Command{
		Use:   "rotate [layout] [module-id]",
		Short: "Rotate a module",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadLayout(cmd.Context(), r, args[0])
			if err != nil {
				return err
			}
			m, ok := g.Module(args[1])
			if !ok {
				return stderrors.New("module " + args[1] + " not found")
			}

			target := m.Orientation().Rotated()
			if orient != "" {
				target, err = grid.ParseOrientation(orient)
				if err != nil {
					return err
				}
			}
			next, err := g.RotateModule(args[1], target)
			if err != nil {
				return reportRejection(err)
			}
			if err := saveLayout(cmd.Context(), r, args[0], next); err != nil {
				return err
			}
			printSuccess("rotated %s to %s", args[1], target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&orient, "orientation", "r", "", "target orientation (default: 90° clockwise)")
	return cmd
}

// newRecolorCmd creates the recolor command. Without --color the module
// cycles to the next palette color.
func newRecolorCmd(r *run) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "recolor [layout] [module-id]",
		Short: "Change a module's color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadLayout(cmd.Context(), r, args[0])
			if err != nil {
				return err
			}
			m, ok := g.Module(args[1])
			if !ok {
				return stderrors.New("module " + args[1] + " not found")
			}

			target := m.Color().Next()
			if color != "" {
				target, err = grid.ParseColor(color)
				if err != nil {
					return err
				}
			}
			next, err := g.RecolorModule(args[1], target)
			if err != nil {
				return err
			}
			if err := saveLayout(cmd.Context(), r, args[0], next); err != nil {
				return err
			}
			printSuccess("recolored %s to %s", args[1], colorSwatch(target))
			return nil
		},
	}

	cmd.Flags().StringVarP(&color, "color", "c", "", "target color (default: next palette color)")
	return cmd
}
