package scene

import (
	"fmt"
	"math"
	"strings"
)

// FrameSample is the per-frame numeric state.
type FrameSample struct {
	Frame      int
	X, Y       float64
	Speed      float64
	Rate       float64
	Distortion float64
	Tiles      int
	Added      int
	Evicted    int
	Held       bool
}

// FrameEvent is one discrete event: a press, a tap, a tile entering the window.
type FrameEvent struct {
	Frame    int
	Category string // input, grid, audio
	Key      string
	Value    string
	NumVal   float64
}

// String formats the event as a fixed-width log line.
//
//	[F=0042] input    release          tap at 640,360
func (e FrameEvent) String() string {
	return fmt.Sprintf("[F=%04d] %-8s %-16s %s", e.Frame, e.Category, e.Key, e.Value)
}

// FrameLog collects samples and events from a run. It is unbounded; the
// on-screen activity panel keeps its own ring buffer.
type FrameLog struct {
	samples []FrameSample
	events  []FrameEvent
	verbose bool
}

// NewFrameLog creates a log. Verbose logs also keep per-tile events.
func NewFrameLog(verbose bool) *FrameLog {
	return &FrameLog{verbose: verbose}
}

// Sample records the state of a finished frame.
func (fl *FrameLog) Sample(fs FrameState) {
	tiles := 0
	if fs.Grid != nil {
		tiles = fs.Grid.Len()
	}
	fl.samples = append(fl.samples, FrameSample{
		Frame:      fs.Frame,
		X:          fs.Camera.X,
		Y:          fs.Camera.Y,
		Speed:      fs.Camera.Speed(),
		Rate:       fs.Rate,
		Distortion: fs.Distortion,
		Tiles:      tiles,
		Added:      fs.Stats.Added,
		Evicted:    fs.Stats.Evicted,
		Held:       fs.Held,
	})
}

// Add records an event.
func (fl *FrameLog) Add(frame int, category, key, value string, numVal float64) {
	fl.events = append(fl.events, FrameEvent{
		Frame:    frame,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an event only in verbose mode.
func (fl *FrameLog) AddVerbose(frame int, category, key, value string, numVal float64) {
	if !fl.verbose {
		return
	}
	fl.Add(frame, category, key, value, numVal)
}

func (fl *FrameLog) Samples() []FrameSample { return fl.samples }
func (fl *FrameLog) Events() []FrameEvent { return fl.events }

// Filter returns events matching category and key; empty matches anything.
func (fl *FrameLog) Filter(category, key string) []FrameEvent {
	var out []FrameEvent
	for _, e := range fl.events {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many events match category and key.
func (fl *FrameLog) Count(category, key string) int {
	return len(fl.Filter(category, key))
}

// LastOf returns the most recent matching event.
func (fl *FrameLog) LastOf(category, key string) (FrameEvent, bool) {
	events := fl.Filter(category, key)
	if len(events) == 0 {
		return FrameEvent{}, false
	}
	return events[len(events)-1], true
}

// Summary aggregates a run.
type Summary struct {
	Frames      int
	Distance    float64
	PeakSpeed   float64
	MinRate     float64
	PeakWarp    float64
	TilesAdded  int
	TilesEvicts int
	Taps        int // taps that hit a tile
}

// Summarize folds the samples and events into a Summary.
func (fl *FrameLog) Summarize() Summary {
	s := Summary{MinRate: 1}
	for _, e := range fl.Filter("input", "tap") {
		if e.NumVal >= 0 {
			s.Taps++
		}
	}
	for i, smp := range fl.samples {
		s.Frames++
		if i > 0 {
			prev := fl.samples[i-1]
			dx, dy := smp.X-prev.X, smp.Y-prev.Y
			s.Distance += math.Hypot(dx, dy)
		}
		if smp.Speed > s.PeakSpeed {
			s.PeakSpeed = smp.Speed
		}
		if smp.Rate < s.MinRate {
			s.MinRate = smp.Rate
		}
		if smp.Distortion > s.PeakWarp {
			s.PeakWarp = smp.Distortion
		}
		s.TilesAdded += smp.Added
		s.TilesEvicts += smp.Evicted
	}
	return s
}

// Format renders all events as text.
func (fl *FrameLog) Format() string {
	var sb strings.Builder
	for _, e := range fl.events {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
