package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tbeckers/floatdeck/pkg/grid"
)

// Config holds the CLI and server configuration, loaded from TOML.
// Precedence: command-line flags > config file > built-in defaults.
type Config struct {
	Grid   GridConfig   `toml:"grid"`
	Server ServerConfig `toml:"server"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
}

// GridConfig sets the defaults for newly created layouts.
type GridConfig struct {
	Width      int     `toml:"width"`
	Depth      int     `toml:"depth"`
	Levels     int     `toml:"levels"`
	CellWidth  float64 `toml:"cell_width"`  // mm
	CellHeight float64 `toml:"cell_height"` // mm, stacking height per level
	CellDepth  float64 `toml:"cell_depth"`  // mm
	// StrictStacks enables the full-column support rule when vetting
	// layouts loaded from records.
	StrictStacks bool `toml:"strict_stacks"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr  string `toml:"addr"`
	Store string `toml:"store"` // memory, file, redis, mongo
}

// RedisConfig configures the redis layout store.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the mongo layout store.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// defaultConfig returns the built-in defaults: a 10x10 grid with three
// levels of standard 500x300x500mm pontoon cells, file-backed storage.
func defaultConfig() Config {
	return Config{
		Grid: GridConfig{
			Width: 10, Depth: 10, Levels: 3,
			CellWidth: 500, CellHeight: 300, CellDepth: 500,
		},
		Server: ServerConfig{Addr: ":8080", Store: "file"},
		Redis:  RedisConfig{Addr: "localhost:6379"},
		Mongo:  MongoConfig{URI: "mongodb://localhost:27017"},
	}
}

// defaultConfigPath returns ~/.config/floatdeck/config.toml.
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "floatdeck", "config.toml"), nil
}

// loadConfig reads the TOML config at path on top of the defaults.
// An empty path means the default location; a missing file at the
// default location is not an error, a missing explicit path is.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return cfg, err
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// CellSize returns the configured cell dimensions.
func (c GridConfig) CellSize() grid.Dimensions {
	return grid.Dimensions{Width: c.CellWidth, Height: c.CellHeight, Depth: c.CellDepth}
}

// GridOptions translates the config into engine options.
func (c GridConfig) GridOptions() []grid.Option {
	if !c.StrictStacks {
		return nil
	}
	return []grid.Option{grid.WithValidator(grid.NewValidator(grid.WithStrictStacks()))}
}
