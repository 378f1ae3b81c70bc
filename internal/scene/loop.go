// Package scene drives one gallery frame: camera momentum, audio easing, the
// lens distortion amount, the starfield, the tile window and finally the
// renderer. It has no ebiten dependency so the headless report and tests run
// the exact frame logic the window does.
package scene

import (
	"math"

	"github.com/Garsondee/Drift-Gallery/internal/grid"
	"github.com/Garsondee/Drift-Gallery/internal/interact"
)

// Audio is advanced once per frame and returns the current playback rate.
type Audio interface {
	Update() float64
}

// Renderer draws a finished frame.
type Renderer interface {
	Render(fs FrameState) error
}

// Distortion low-passes camera speed into a lens warp amount.
type Distortion struct {
	Gain      float64
	Cap       float64
	Smoothing float64
	Value     float64
}

// NewDistortion returns the gallery's tuning: a gentle warp that saturates
// at moderate fling speeds.
func NewDistortion() *Distortion {
	return &Distortion{Gain: 2, Cap: 0.1, Smoothing: 0.1}
}

// Update moves Value toward min(speed*Gain, Cap) and returns it.
func (d *Distortion) Update(speed float64) float64 {
	target := math.Min(speed*d.Gain, d.Cap)
	d.Value += (target - d.Value) * d.Smoothing
	return d.Value
}

// FrameState is everything a renderer needs for one frame.
type FrameState struct {
	Frame      int
	Camera     interact.Camera
	View       View
	Held       bool
	Rate       float64
	Distortion float64
	Backdrop   *Backdrop
	Grid       *grid.Manager
	Stats      grid.RefreshStats
}

// Loop owns the per-frame ordering.
type Loop struct {
	Controller *interact.Controller
	Audio      Audio
	Grid       *grid.Manager
	Backdrop   *Backdrop
	Distortion *Distortion
	Renderer   Renderer
	Log        *FrameLog

	view  View
	frame int
	last  FrameState
}

// NewLoop assembles a loop with a 75 degree camera and the default distortion.
// audio, backdrop and renderer may be nil.
func NewLoop(ctl *interact.Controller, audio Audio, mgr *grid.Manager, backdrop *Backdrop, renderer Renderer) *Loop {
	cam := ctl.Camera()
	return &Loop{
		Controller: ctl,
		Audio:      audio,
		Grid:       mgr,
		Backdrop:   backdrop,
		Distortion: NewDistortion(),
		Renderer:   renderer,
		view:       View{X: cam.X, Y: cam.Y, Z: cam.Z, Width: 1280, Height: 720, FOV: 75},
	}
}

// SetViewport updates the projection aspect after a resize.
func (l *Loop) SetViewport(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	l.view.Width = w
	l.view.Height = h
}

// SetFOV sets the vertical field of view in degrees.
func (l *Loop) SetFOV(deg float64) {
	if deg > 0 && deg < 180 {
		l.view.FOV = deg
	}
}

// View returns the camera projection used by the last frame.
func (l *Loop) View() View {
	return l.view
}

// Frame runs one tick.
func (l *Loop) Frame() error {
	l.frame++
	l.Controller.Step()

	rate := 1.0
	if l.Audio != nil {
		rate = l.Audio.Update()
	}

	cam := l.Controller.Camera()
	dist := l.Distortion.Update(cam.Speed())

	if l.Backdrop != nil {
		l.Backdrop.Track(cam.X, cam.Y)
	}

	stats := l.Grid.Refresh(cam.X, cam.Y)

	l.view.X, l.view.Y, l.view.Z = cam.X, cam.Y, cam.Z

	l.last = FrameState{
		Frame:      l.frame,
		Camera:     cam,
		View:       l.view,
		Held:       l.Controller.Held(),
		Rate:       rate,
		Distortion: dist,
		Backdrop:   l.Backdrop,
		Grid:       l.Grid,
		Stats:      stats,
	}
	if l.Log != nil {
		l.Log.Sample(l.last)
	}
	if l.Renderer != nil {
		return l.Renderer.Render(l.last)
	}
	return nil
}

// Last returns the state produced by the most recent Frame.
func (l *Loop) Last() FrameState {
	return l.last
}

// Pick returns the tile under screen point (sx, sy), if any.
func (l *Loop) Pick(sx, sy float64) (grid.Tile, bool) {
	wx, wy := l.view.Unproject(sx, sy)
	return l.Grid.HitTest(wx, wy)
}

// Scheduler calls frame repeatedly until it stops or frame fails.
type Scheduler interface {
	Run(frame func() error) error
}

// StepScheduler runs a fixed number of frames back to back.
type StepScheduler struct {
	Frames int
}

func (s StepScheduler) Run(frame func() error) error {
	for i := 0; i < s.Frames; i++ {
		if err := frame(); err != nil {
			return err
		}
	}
	return nil
}
