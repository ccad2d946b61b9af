package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// Typically called by the main package with values injected via ldflags
// at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// run holds per-invocation state shared by all commands: the loaded
// config and the persistent flag values that override it.
type run struct {
	cfg        Config
	configPath string
}

// Execute runs the floatdeck CLI and returns an error if any command
// fails. Logging defaults to info level; --verbose (-v) raises it to
// debug. The logger is attached to the context and accessible to all
// commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool
	r := &run{}

	root := &cobra.Command{
		Use:          "floatdeck",
		Short:        "FloatDeck plans modular floating platform layouts",
		Long:         `FloatDeck is a CLI tool for designing floating platforms from standard pontoon modules: place, stack, and rearrange modules on a validated grid, then inspect, render, or serve the result.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))

			cfg, err := loadConfig(r.configPath)
			if err != nil {
				return err
			}
			r.cfg = cfg
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("floatdeck %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&r.configPath, "config", "", "config file (default ~/.config/floatdeck/config.toml)")

	root.AddCommand(newNewCmd(r))
	root.AddCommand(newListCmd(r))
	root.AddCommand(newDeleteCmd(r))
	root.AddCommand(newExportCmd(r))
	root.AddCommand(newImportCmd(r))
	root.AddCommand(newPlaceCmd(r))
	root.AddCommand(newRemoveCmd(r))
	root.AddCommand(newMoveCmd(r))
	root.AddCommand(newRotateCmd(r))
	root.AddCommand(newRecolorCmd(r))
	root.AddCommand(newCheckCmd(r))
	root.AddCommand(newNearbyCmd(r))
	root.AddCommand(newStatsCmd(r))
	root.AddCommand(newBOMCmd(r))
	root.AddCommand(newRenderCmd(r))
	root.AddCommand(newVizCmd(r))
	root.AddCommand(newServeCmd(r))
	root.AddCommand(newEditCmd(r))

	return root.ExecuteContext(ctx)
}
