package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Assets says where images and audio are read from. BaseURL wins over Dir
// when both are set.
type Assets struct {
	Dir            string `toml:"dir"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Grid sizes the tile window and the world layout.
type Grid struct {
	Size     int     `toml:"size"`
	Spacing  float64 `toml:"spacing"`
	TileSize float64 `toml:"tile_size"`
	Opacity  float64 `toml:"opacity"`
}

// Camera is the perspective projection.
type Camera struct {
	Z   float64 `toml:"z"`
	FOV float64 `toml:"fov"`
}

// Input tunes dragging, momentum and tap detection.
type Input struct {
	DragScale     float64 `toml:"drag_scale"`
	Friction      float64 `toml:"friction"`
	DragThreshold float64 `toml:"drag_threshold"`
	TapWindowMS   int     `toml:"tap_window_ms"`
	NudgeSpeed    float64 `toml:"nudge_speed"`
}

// Audio controls the background track and its press-to-slow easing.
type Audio struct {
	Enabled      bool    `toml:"enabled"`
	StartSeconds float64 `toml:"start_seconds"`
	MinRate      float64 `toml:"min_rate"`
	MaxRate      float64 `toml:"max_rate"`
	Slowdown     float64 `toml:"slowdown"`
	Speedup      float64 `toml:"speedup"`
	Volume       float64 `toml:"volume"`
}

// Render controls the window and the drawing passes.
type Render struct {
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
	Stars      int  `toml:"stars"`
	Distortion bool `toml:"distortion"`
	ShowHUD    bool `toml:"show_hud"`
	Fullscreen bool `toml:"fullscreen"`
}

// Texture controls background image loading.
type Texture struct {
	MaxSize        int `toml:"max_size"`
	Workers        int `toml:"workers"`
	OverlayCacheMB int `toml:"overlay_cache_mb"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config is the full gallery configuration.
type Config struct {
	Seed    uint32  `toml:"seed"`
	Assets  Assets  `toml:"assets"`
	Grid    Grid    `toml:"grid"`
	Camera  Camera  `toml:"camera"`
	Input   Input   `toml:"input"`
	Audio   Audio   `toml:"audio"`
	Render  Render  `toml:"render"`
	Texture Texture `toml:"texture"`
	Logging Logging `toml:"logging"`
}

// Load reads path over the defaults. An empty or missing path yields the
// defaults; exists reports whether a file was read.
func Load(path string) (cfg *Config, exists bool, err error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, false, fmt.Errorf("open config: %w", err)
		default:
			exists = true
			dec := toml.NewDecoder(bytes.NewReader(data))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&c); err != nil {
				return nil, false, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := c.normalize(); err != nil {
		return nil, false, err
	}
	if err := c.Validate(); err != nil {
		return nil, false, err
	}
	return &c, exists, nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
