package playback

import (
	"log/slog"
	"sync"

	"github.com/Garsondee/Drift-Gallery/internal/logging"
)

// Output receives the eased playback rate once audio is running.
type Output interface {
	SetRate(rate float64)
}

// Opener starts audio output. It runs at most once, on the first press, on
// its own goroutine.
type Opener func() (Output, error)

// Player couples the rate controller with lazily started audio output. Audio is
// opened on the first press so platforms that forbid autoplay accept it.
type Player struct {
	rate   *RateController
	open   Opener
	out    Output
	tried  bool
	logger *slog.Logger

	mu     sync.Mutex
	opened Output // set by the opener goroutine, taken by Update
	wg     sync.WaitGroup
}

// NewPlayer wires ctl to open. A nil open keeps the player silent.
func NewPlayer(ctl *RateController, open Opener, logger *slog.Logger) *Player {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Player{rate: ctl, open: open, logger: logger}
}

// SetHeld forwards press state and opens audio on the first press.
func (p *Player) SetHeld(held bool) {
	if held && !p.tried {
		p.tried = true
		p.start()
	}
	p.rate.SetHeld(held)
}

// start opens the output in the background so a slow download or decode
// never stalls the frame.
func (p *Player) start() {
	if p.open == nil {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		out, err := p.open()
		if err != nil {
			p.logger.Warn("audio disabled", "error", err)
			return
		}
		p.mu.Lock()
		p.opened = out
		p.mu.Unlock()
	}()
}

// Update advances the rate one frame and applies it to the output, picking
// up the output once the opener has finished.
func (p *Player) Update() float64 {
	if p.out == nil {
		p.mu.Lock()
		p.out, p.opened = p.opened, nil
		p.mu.Unlock()
		if p.out != nil {
			p.logger.Info("audio started")
		}
	}
	r := p.rate.Update()
	if p.out != nil {
		p.out.SetRate(r)
	}
	return r
}

// Wait blocks until a running open finishes.
func (p *Player) Wait() {
	p.wg.Wait()
}

// Started reports whether audio output is live.
func (p *Player) Started() bool {
	return p.out != nil
}

// Rate exposes the underlying controller.
func (p *Player) Rate() *RateController {
	return p.rate
}
