package scene

import (
	"math"
	"math/rand"
)

// Star is a point of the backdrop in the backdrop's local space.
type Star struct {
	X, Y, Z float64
	Size    float64
}

// BackdropConfig shapes the starfield.
type BackdropConfig struct {
	Count  int
	Extent float64 // cube edge length
	Depth  float64 // z of the field's centre
	SpinX  float64 // radians per frame
	SpinY  float64
	Seed   int64
}

// DefaultBackdropConfig is a wide, slowly turning field far behind the tiles.
func DefaultBackdropConfig() BackdropConfig {
	return BackdropConfig{
		Count:  2000,
		Extent: 150,
		Depth:  -50,
		SpinX:  0.0001,
		SpinY:  0.0002,
		Seed:   7,
	}
}

// Backdrop is a starfield that follows the camera and slowly rotates.
type Backdrop struct {
	cfg   BackdropConfig
	Stars []Star
	X, Y  float64
	RotX  float64
	RotY  float64
}

// NewBackdrop scatters cfg.Count stars through a cube.
func NewBackdrop(cfg BackdropConfig) *Backdrop {
	rng := rand.New(rand.NewSource(cfg.Seed)) // #nosec G404 -- cosmetic only
	stars := make([]Star, cfg.Count)
	for i := range stars {
		stars[i] = Star{
			X:    (rng.Float64() - 0.5) * cfg.Extent,
			Y:    (rng.Float64() - 0.5) * cfg.Extent,
			Z:    (rng.Float64() - 0.5) * cfg.Extent,
			Size: rng.Float64()*0.5 + 0.1,
		}
	}
	return &Backdrop{cfg: cfg, Stars: stars}
}

// Track recentres the field on the camera and advances the spin.
func (b *Backdrop) Track(camX, camY float64) {
	b.X = camX
	b.Y = camY
	b.RotY += b.cfg.SpinY
	b.RotX += b.cfg.SpinX
}

// World returns star s in world space. The field's XYZ Euler rotation applies
// Ry before Rx, then the field's position is added.
func (b *Backdrop) World(s Star) (x, y, z float64) {
	sy, cy := math.Sincos(b.RotY)
	sx, cx := math.Sincos(b.RotX)
	// Ry first.
	x1 := s.X*cy + s.Z*sy
	y1 := s.Y
	z1 := -s.X*sy + s.Z*cy
	// Then Rx.
	x2 := x1
	y2 := y1*cx - z1*sx
	z2 := y1*sx + z1*cx
	return x2 + b.X, y2 + b.Y, z2 + b.cfg.Depth
}
