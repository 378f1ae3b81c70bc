package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAssets(); err != nil {
		return err
	}
	if err := c.validateGrid(); err != nil {
		return err
	}
	if err := c.validateCamera(); err != nil {
		return err
	}
	if err := c.validateInput(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateTexture(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAssets() error {
	if c.Assets.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(c.Assets.BaseURL)
	if err != nil {
		return fmt.Errorf("assets.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("assets.base_url: unsupported scheme %q", u.Scheme)
	}
	return nil
}

func (c *Config) validateGrid() error {
	if c.Grid.Size < 0 {
		return errors.New("grid.size must not be negative")
	}
	if c.Grid.Spacing <= 0 {
		return errors.New("grid.spacing must be positive")
	}
	if c.Grid.TileSize <= 0 || c.Grid.TileSize > c.Grid.Spacing {
		return errors.New("grid.tile_size must be positive and no larger than grid.spacing")
	}
	if c.Grid.Opacity < 0 || c.Grid.Opacity > 1 {
		return errors.New("grid.opacity must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateCamera() error {
	if c.Camera.Z <= 0 {
		return errors.New("camera.z must be positive")
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return errors.New("camera.fov must be between 0 and 180 degrees")
	}
	return nil
}

func (c *Config) validateInput() error {
	if c.Input.DragScale <= 0 {
		return errors.New("input.drag_scale must be positive")
	}
	if c.Input.Friction < 0 || c.Input.Friction >= 1 {
		return errors.New("input.friction must be in [0, 1)")
	}
	if c.Input.DragThreshold < 0 {
		return errors.New("input.drag_threshold must not be negative")
	}
	if c.Input.TapWindowMS < 0 {
		return errors.New("input.tap_window_ms must not be negative")
	}
	if c.Input.NudgeSpeed < 0 {
		return errors.New("input.nudge_speed must not be negative")
	}
	return nil
}

func (c *Config) validateAudio() error {
	a := c.Audio
	if a.MinRate <= 0 || a.MinRate > a.MaxRate {
		return fmt.Errorf("audio.min_rate must be in (0, %g]", a.MaxRate)
	}
	if a.Slowdown <= 0 || a.Slowdown > 1 {
		return errors.New("audio.slowdown must be in (0, 1]")
	}
	if a.Speedup <= 0 || a.Speedup > 1 {
		return errors.New("audio.speedup must be in (0, 1]")
	}
	if a.StartSeconds < 0 {
		return errors.New("audio.start_seconds must not be negative")
	}
	if a.Volume < 0 || a.Volume > 1 {
		return errors.New("audio.volume must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errors.New("render.width and render.height must be positive")
	}
	if c.Render.Stars < 0 {
		return errors.New("render.stars must not be negative")
	}
	return nil
}

func (c *Config) validateTexture() error {
	if c.Texture.MaxSize < 0 {
		return errors.New("texture.max_size must not be negative")
	}
	if c.Texture.OverlayCacheMB < MinOverlayCacheMB {
		return fmt.Errorf("texture.overlay_cache_mb must be at least %d", MinOverlayCacheMB)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
