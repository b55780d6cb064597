// Package config loads editor settings and the color theme from a
// TOML file, falling back to compiled defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// Config is the root of vellum.toml.
type Config struct {
	TabSize int   `toml:"tab_size"`
	FPS     int   `toml:"fps"`
	Fonts   Fonts `toml:"fonts"`
	Theme   Theme `toml:"theme"`
}

// Fonts names the font families handed to the system font query.
type Fonts struct {
	Fixed    string `toml:"fixed"`
	Variable string `toml:"variable"`
}

// Theme groups the per widget color tables.
type Theme struct {
	Textview Textview `toml:"textview"`
	Gutter   Gutter   `toml:"gutter"`
	Overlay  Overlay  `toml:"overlay"`
	Syntax   Syntax   `toml:"syntax"`
}

// Textview styles the editing panes.
type Textview struct {
	Background Color   `toml:"background"`
	Foreground Color   `toml:"foreground"`
	Cursor     Color   `toml:"cursor"`
	TextSize   float64 `toml:"text_size"`
}

// Gutter styles the line number column.
type Gutter struct {
	Foreground Color   `toml:"foreground"`
	TextSize   float64 `toml:"text_size"`
	Padding    int     `toml:"padding"`
}

// Overlay styles the prompt and the fuzzy popup. Percentages are of
// the window dimensions.
type Overlay struct {
	Background       Color `toml:"background"`
	Foreground       Color `toml:"foreground"`
	Label            Color `toml:"label"`
	Selection        Color `toml:"selection"`
	WidthPercent     int   `toml:"width_percent"`
	MaxHeightPercent int   `toml:"max_height_percent"`
	EdgePadding      int   `toml:"edge_padding"`
	LineSpacing      int   `toml:"line_spacing"`
	BottomOffset     int   `toml:"bottom_offset"`
}

// Syntax maps token categories to colors.
type Syntax struct {
	Keyword    Color `toml:"keyword"`
	DataType   Color `toml:"data_type"`
	Function   Color `toml:"function"`
	String     Color `toml:"string"`
	Char       Color `toml:"char"`
	Escape     Color `toml:"escape"`
	Number     Color `toml:"number"`
	Comment    Color `toml:"comment"`
	Operator   Color `toml:"operator"`
	Separator  Color `toml:"separator"`
	EntityName Color `toml:"entity_name"`
	EntityTag  Color `toml:"entity_tag"`
}

// Default returns the built in light theme and settings.
func Default() *Config {
	return &Config{
		TabSize: 8,
		FPS:     60,
		Fonts: Fonts{
			Fixed:    defaultFixedFont(),
			Variable: defaultVariableFont(),
		},
		Theme: Theme{
			Textview: Textview{
				Background: RGBA(255, 255, 255, 255),
				Foreground: RGBA(96, 96, 96, 255),
				Cursor:     RGBA(255, 128, 0, 196),
				TextSize:   8.0,
			},
			Gutter: Gutter{
				Foreground: RGBA(196, 196, 196, 255),
				TextSize:   7.0,
				Padding:    10,
			},
			Overlay: Overlay{
				Background:       RGBA(255, 255, 255, 255),
				Foreground:       RGBA(144, 144, 144, 255),
				Label:            RGBA(96, 96, 96, 255),
				Selection:        RGBA(255, 100, 0, 255),
				WidthPercent:     90,
				MaxHeightPercent: 40,
				EdgePadding:      10,
				LineSpacing:      2,
				BottomOffset:     10,
			},
			Syntax: Syntax{
				Keyword:    RGBA(80, 80, 160, 255),
				DataType:   RGBA(160, 120, 80, 255),
				Function:   RGBA(120, 80, 160, 255),
				String:     RGBA(80, 160, 80, 255),
				Char:       RGBA(80, 160, 80, 255),
				Escape:     RGBA(160, 80, 80, 255),
				Number:     RGBA(160, 80, 80, 255),
				Comment:    RGBA(196, 196, 196, 255),
				Operator:   RGBA(96, 96, 96, 255),
				Separator:  RGBA(96, 96, 96, 255),
				EntityName: RGBA(96, 96, 160, 255),
				EntityTag:  RGBA(160, 96, 96, 255),
			},
		},
	}
}

func defaultFixedFont() string {
	if runtime.GOOS == "windows" {
		return "Consolas"
	}
	return "monospace"
}

func defaultVariableFont() string {
	if runtime.GOOS == "windows" {
		return "Arial"
	}
	return "sans"
}

// Load reads path, or the per user config when path is empty. A
// missing file is not an error; defaults apply.
func Load(path string, logger *zap.Logger) (*Config, error) {
	cfg := Default()

	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			logger.Debug("no user config dir, using defaults", zap.Error(err))
			return cfg, nil
		}
		path = filepath.Join(dir, "vellum", "vellum.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("config file not found, using defaults", zap.String("path", path))
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	logger.Info("loaded config", zap.String("path", path))
	return cfg, nil
}
