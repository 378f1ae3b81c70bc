package scene

import (
	"fmt"
	"time"

	"github.com/Garsondee/Drift-Gallery/internal/catalog"
	"github.com/Garsondee/Drift-Gallery/internal/grid"
	"github.com/Garsondee/Drift-Gallery/internal/interact"
	"github.com/Garsondee/Drift-Gallery/internal/playback"
	"github.com/Garsondee/Drift-Gallery/internal/prng"
)

// FrameDuration is the simulated time between harness frames.
const FrameDuration = time.Second / 60

// StepClock is a manual clock for deterministic gesture timing.
type StepClock struct {
	t time.Time
}

func (c *StepClock) Now() time.Time { return c.t }

// Advance moves the clock forward by d.
func (c *StepClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// headlessTiles stands in for GPU quads.
type headlessTiles struct {
	next grid.Handle
	live map[grid.Handle]grid.Tile
}

func (r *headlessTiles) Attach(t grid.Tile, worldX, worldY float64) grid.Handle {
	r.next++
	t.Handle = r.next
	r.live[r.next] = t
	return r.next
}

func (r *headlessTiles) Detach(h grid.Handle) {
	delete(r.live, h)
}

// Harness runs the gallery without a window. It mirrors Game.Update and
// replays scripted pointer gestures against a manual clock.
type Harness struct {
	Images   int
	Seed     uint32
	GridSize int
	Width    float64
	Height   float64
	Verbose  bool

	Clock      *StepClock
	Controller *interact.Controller
	Rate       *playback.RateController
	Grid       *grid.Manager
	Loop       *Loop
	Log        *FrameLog
	Pairs      []catalog.Pair

	renderer Renderer
	tiles    *headlessTiles
	pointerX float64
	pointerY float64
	opened   []int
}

// HarnessOption configures a Harness before it is assembled.
type HarnessOption func(*Harness)

// WithImages sets the catalog size.
func WithImages(n int) HarnessOption {
	return func(h *Harness) { h.Images = n }
}

// WithSeed seeds the pairing shuffle.
func WithSeed(seed uint32) HarnessOption {
	return func(h *Harness) { h.Seed = seed }
}

// WithGridSize sets the grid size; the view radius is two more.
func WithGridSize(n int) HarnessOption {
	return func(h *Harness) { h.GridSize = n }
}

// WithViewport sets the simulated window size.
func WithViewport(w, h float64) HarnessOption {
	return func(hs *Harness) {
		hs.Width = w
		hs.Height = h
	}
}

// WithVerbose records per-tile events.
func WithVerbose(v bool) HarnessOption {
	return func(h *Harness) { h.Verbose = v }
}

// WithRenderer observes every frame.
func WithRenderer(r Renderer) HarnessOption {
	return func(h *Harness) { h.renderer = r }
}

// NewHarness applies opts over the gallery defaults and renders nothing until
// the first frame.
func NewHarness(opts ...HarnessOption) *Harness {
	h := &Harness{
		Images:   12,
		Seed:     1,
		GridSize: 5,
		Width:    1280,
		Height:   720,
	}
	for _, o := range opts {
		o(h)
	}

	h.Clock = &StepClock{t: time.Unix(0, 0)}
	h.Log = NewFrameLog(h.Verbose)
	h.Pairs = catalog.BuildPairs(h.Images, prng.New(h.Seed))
	h.Rate = playback.NewRateController(playback.DefaultRateConfig())
	h.Controller = interact.NewController(interact.DefaultConfig(), h.Clock, h.Rate)
	h.tiles = &headlessTiles{live: make(map[grid.Handle]grid.Tile)}
	h.Grid = grid.NewManager(grid.ManagerConfig{
		GridSize: h.GridSize,
		Spacing:  5,
		TileSize: 4,
	}, grid.Assigner{Total: h.Images}, h.tiles)
	h.Grid.SetListener(h)

	h.Loop = NewLoop(h.Controller, h.Rate, h.Grid, NewBackdrop(BackdropConfig{
		Count:  64,
		Extent: 150,
		Depth:  -50,
		SpinX:  0.0001,
		SpinY:  0.0002,
		Seed:   int64(h.Seed),
	}), h.renderer)
	h.Loop.SetViewport(h.Width, h.Height)
	h.Loop.Log = h.Log
	h.pointerX, h.pointerY = h.Width/2, h.Height/2
	return h
}

func (h *Harness) TileAdded(t grid.Tile) {
	h.Log.AddVerbose(h.Loop.frame, "grid", "added", fmt.Sprintf("%s -> img%d", t.Cell, t.ImageIndex), float64(t.ImageIndex))
}

func (h *Harness) TileEvicted(t grid.Tile) {
	h.Log.AddVerbose(h.Loop.frame, "grid", "evicted", t.Cell.String(), float64(t.ImageIndex))
}

// Step advances the clock and runs one frame.
func (h *Harness) Step() error {
	h.Clock.Advance(FrameDuration)
	return h.Loop.Frame()
}

// RunFrames runs n frames.
func (h *Harness) RunFrames(n int) error {
	return StepScheduler{Frames: n}.Run(h.Step)
}

// RunUntil runs up to maxFrames, stopping once pred holds. It returns the
// frame at which pred first held, or -1.
func (h *Harness) RunUntil(pred func(*Harness) bool, maxFrames int) (int, error) {
	for i := 0; i < maxFrames; i++ {
		if err := h.Step(); err != nil {
			return -1, err
		}
		if pred(h) {
			return h.Loop.frame, nil
		}
	}
	return -1, nil
}

// Press puts the pointer down at (x, y).
func (h *Harness) Press(x, y float64) {
	h.pointerX, h.pointerY = x, y
	h.Controller.PointerDown(x, y)
	h.Log.Add(h.Loop.frame, "input", "press", fmt.Sprintf("%.0f,%.0f", x, y), 0)
}

// MoveTo slides the pointer to (x, y) in equal steps, one frame per step.
func (h *Harness) MoveTo(x, y float64, frames int) error {
	if frames < 1 {
		frames = 1
	}
	sx, sy := h.pointerX, h.pointerY
	for i := 1; i <= frames; i++ {
		f := float64(i) / float64(frames)
		h.pointerX = sx + (x-sx)*f
		h.pointerY = sy + (y-sy)*f
		h.Controller.PointerMove(h.pointerX, h.pointerY)
		if err := h.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Release lifts the pointer. A tap opens the tile under the pointer.
func (h *Harness) Release() interact.Release {
	rel := h.Controller.PointerUp(h.pointerX, h.pointerY)
	if !rel.Tap {
		h.Log.Add(h.Loop.frame, "input", "release", fmt.Sprintf("speed %.3f", h.Controller.Camera().Speed()), h.Controller.Camera().Speed())
		return rel
	}
	t, ok := h.Loop.Pick(rel.X, rel.Y)
	if !ok {
		h.Log.Add(h.Loop.frame, "input", "tap", "miss", -1)
		return rel
	}
	h.opened = append(h.opened, t.ImageIndex)
	h.Log.Add(h.Loop.frame, "input", "tap", fmt.Sprintf("%s -> img%d", t.Cell, t.ImageIndex), float64(t.ImageIndex))
	return rel
}

// Tap presses and releases at (x, y) one frame apart.
func (h *Harness) Tap(x, y float64) (interact.Release, error) {
	h.Press(x, y)
	if err := h.Step(); err != nil {
		return interact.Release{}, err
	}
	return h.Release(), nil
}

// Fling drags from the screen centre by (dx, dy) over frames and lets go.
func (h *Harness) Fling(dx, dy float64, frames int) (interact.Release, error) {
	cx, cy := h.Width/2, h.Height/2
	h.Press(cx, cy)
	if err := h.MoveTo(cx+dx, cy+dy, frames); err != nil {
		return interact.Release{}, err
	}
	return h.Release(), nil
}

// Opened lists the image indices opened by taps, in order.
func (h *Harness) Opened() []int {
	return h.opened
}

// LiveQuads returns how many tile quads the headless renderer holds.
func (h *Harness) LiveQuads() int {
	return len(h.tiles.live)
}
