package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tbeckers/floatdeck/pkg/render"
)

// newRenderCmd creates the render command: plan-view SVG output.
func newRenderCmd(r *run) *cobra.Command {
	var output string
	var level, cellPx int
	var labels, lines bool

	cmd := &cobra.Command{
		Use:   "render [layout]",
		Short: "Render a layout as a plan-view SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			p := newProgress(logger)

			g, err := loadLayout(cmd.Context(), r, args[0])
			if err != nil {
				return err
			}

			opts := []render.SVGOption{render.WithCellPixels(float64(cellPx))}
			if labels {
				opts = append(opts, render.WithLabels())
			}
			if lines {
				opts = append(opts, render.WithGridLines())
			}
			if cmd.Flags().Changed("level") {
				opts = append(opts, render.WithLevel(level))
			}

			svg := render.RenderSVG(g, opts...)
			path := output
			if path == "" {
				path = args[0] + ".svg"
			}
			if err := os.WriteFile(path, svg, 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			p.done(fmt.Sprintf("Rendered %d modules", g.Len()))
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <layout>.svg)")
	cmd.Flags().IntVar(&level, "level", 0, "render a single level only")
	cmd.Flags().IntVar(&cellPx, "cell-pixels", 32, "on-screen cell size in pixels")
	cmd.Flags().BoolVar(&labels, "labels", true, "draw module identities")
	cmd.Flags().BoolVar(&lines, "grid-lines", true, "draw cell boundaries")

	return cmd
}

// newVizCmd creates the viz command: adjacency diagram via Graphviz.
func newVizCmd(r *run) *cobra.Command {
	var output, format string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "viz [layout]",
		Short: "Render the module adjacency graph",
		Long: `Viz renders which modules touch horizontally (solid edges) and which
stack on each other (dashed edges), laid out by Graphviz. Use --format dot
to get the raw DOT text instead of an SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "svg" && format != "dot" {
				return fmt.Errorf("invalid format: %s (must be 'svg' or 'dot')", format)
			}
			logger := loggerFromContext(cmd.Context())

			g, err := loadLayout(cmd.Context(), r, args[0])
			if err != nil {
				return err
			}

			dot := render.ToDOT(g, render.DOTOptions{Detailed: detailed})
			data := []byte(dot)
			if format == "svg" {
				logger.Debug("rendering DOT via graphviz")
				data, err = render.DOTToSVG(dot)
				if err != nil {
					return err
				}
			}

			path := output
			if path == "" {
				path = args[0] + "_graph." + format
			}
			if path == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			printSuccess("rendered adjacency graph")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <layout>_graph.<format>), '-' for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, dot")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include position and type in node labels")

	return cmd
}
