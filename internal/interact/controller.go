// Package interact turns pointer gestures into camera motion: direct drag
// panning, momentum after release, and tap-versus-drag classification.
package interact

import (
	"math"
	"time"
)

// Clock supplies the current time; tests swap in a manual clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// HoldSink is told when the pointer goes down and up (the audio controller).
type HoldSink interface {
	SetHeld(held bool)
}

// Camera is the viewer position above the z=0 tile plane and its momentum.
type Camera struct {
	X, Y, Z float64
	VX, VY  float64
}

// Speed returns the velocity magnitude.
func (c Camera) Speed() float64 {
	return math.Hypot(c.VX, c.VY)
}

// Config tunes the controller.
type Config struct {
	DragScale     float64       // world units per screen pixel
	Friction      float64       // per-frame velocity multiplier after release
	DragThreshold float64       // cumulative pixels before a press counts as a drag
	TapWindow     time.Duration // presses longer than this never count as taps
	CameraZ       float64
}

// DefaultConfig is the gallery's standard drag and momentum feel.
func DefaultConfig() Config {
	return Config{
		DragScale:     0.02,
		Friction:      0.95,
		DragThreshold: 5,
		TapWindow:     200 * time.Millisecond,
		CameraZ:       10,
	}
}

// Release describes a finished press.
type Release struct {
	Tap  bool
	X, Y float64
}

// Controller owns the camera and the press/drag state.
type Controller struct {
	cfg   Config
	clock Clock
	sink  HoldSink

	cam Camera

	pointerDown bool
	dragging    bool
	downAt      time.Time
	lastX       float64
	lastY       float64
	offsetX     float64 // cumulative drag since press
	offsetY     float64
}

// NewController places the camera at the origin. A nil sink is allowed.
func NewController(cfg Config, clock Clock, sink HoldSink) *Controller {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Controller{
		cfg:   cfg,
		clock: clock,
		sink:  sink,
		cam:   Camera{Z: cfg.CameraZ},
	}
}

// Camera returns the current camera state.
func (c *Controller) Camera() Camera {
	return c.cam
}

// SetPosition teleports the camera without touching velocity.
func (c *Controller) SetPosition(x, y float64) {
	c.cam.X = x
	c.cam.Y = y
}

// Nudge adds to the velocity (keyboard panning).
func (c *Controller) Nudge(dvx, dvy float64) {
	c.cam.VX += dvx
	c.cam.VY += dvy
}

// Held reports whether the pointer is down.
func (c *Controller) Held() bool {
	return c.pointerDown
}

// Dragging reports whether the current press moved past the threshold.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// PointerDown starts a press at screen position (x, y).
func (c *Controller) PointerDown(x, y float64) {
	c.pointerDown = true
	c.dragging = false
	c.downAt = c.clock.Now()
	c.lastX, c.lastY = x, y
	c.offsetX, c.offsetY = 0, 0
	if c.sink != nil {
		c.sink.SetHeld(true)
	}
}

// PointerMove pans the camera by the movement since the last event. Screen y
// grows downward while world y grows upward, hence the sign flip.
func (c *Controller) PointerMove(x, y float64) {
	if !c.pointerDown {
		return
	}
	dx := x - c.lastX
	dy := y - c.lastY
	c.offsetX += dx
	c.offsetY += dy
	if math.Hypot(c.offsetX, c.offsetY) > c.cfg.DragThreshold {
		c.dragging = true
	}

	c.cam.X -= dx * c.cfg.DragScale
	c.cam.Y += dy * c.cfg.DragScale
	c.cam.VX = -dx * c.cfg.DragScale
	c.cam.VY = dy * c.cfg.DragScale

	c.lastX, c.lastY = x, y
}

// PointerUp ends the press. The returned Release is a tap only when the press
// never became a drag and was short.
func (c *Controller) PointerUp(x, y float64) Release {
	if !c.pointerDown {
		return Release{X: x, Y: y}
	}
	c.pointerDown = false
	if c.sink != nil {
		c.sink.SetHeld(false)
	}
	tap := !c.dragging && c.clock.Now().Sub(c.downAt) <= c.cfg.TapWindow
	c.dragging = false
	return Release{Tap: tap, X: x, Y: y}
}

// Step applies one frame of momentum while the pointer is up.
func (c *Controller) Step() {
	if c.pointerDown {
		return
	}
	c.cam.X += c.cam.VX
	c.cam.Y += c.cam.VY
	c.cam.VX *= c.cfg.Friction
	c.cam.VY *= c.cfg.Friction
}
