// Package playback drives the soundtrack's playback rate from pointer state:
// it eases toward a slow rate while the pointer is held and back to normal
// speed on release.
package playback

// RateConfig bounds and paces the controller.
type RateConfig struct {
	Min      float64 // rate while held
	Max      float64 // rate while released
	Slowdown float64 // per-frame easing factor while held
	Speedup  float64 // per-frame easing factor while released
	Epsilon  float64 // snap distance to the target
}

// DefaultRateConfig slows gradually and recovers faster.
func DefaultRateConfig() RateConfig {
	return RateConfig{
		Min:      0.1,
		Max:      1.0,
		Slowdown: 0.02,
		Speedup:  0.05,
		Epsilon:  1e-4,
	}
}

// RateController eases Current toward Target each frame.
type RateController struct {
	cfg     RateConfig
	current float64
	target  float64
	held    bool
}

// NewRateController starts at full speed.
func NewRateController(cfg RateConfig) *RateController {
	return &RateController{cfg: cfg, current: cfg.Max, target: cfg.Max}
}

// SetHeld switches the target between the slow and normal rate.
func (r *RateController) SetHeld(held bool) {
	r.held = held
	if held {
		r.target = r.cfg.Min
	} else {
		r.target = r.cfg.Max
	}
}

// Update advances one frame and returns the new rate.
func (r *RateController) Update() float64 {
	diff := r.target - r.current
	if diff > -r.cfg.Epsilon && diff < r.cfg.Epsilon {
		r.current = r.target
		return r.current
	}
	factor := r.cfg.Speedup
	if r.held {
		factor = r.cfg.Slowdown
	}
	r.current += diff * factor
	if r.current < r.cfg.Min {
		r.current = r.cfg.Min
	}
	if r.current > r.cfg.Max {
		r.current = r.cfg.Max
	}
	return r.current
}

// Current returns the rate without advancing.
func (r *RateController) Current() float64 {
	return r.current
}

// Target returns the rate being eased toward.
func (r *RateController) Target() float64 {
	return r.target
}

// Held reports the last SetHeld value.
func (r *RateController) Held() bool {
	return r.held
}
