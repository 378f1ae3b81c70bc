package game

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Drift-Gallery/internal/logging"
)

const (
	logPanelWidth = 340
	logMaxEntries = 60
	logLineHeight = 12
)

// ActivityEntry is a single line in the activity panel.
type ActivityEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// ActivityLog is a ring buffer of recent log records rendered on-screen. It
// doubles as a slog handler so the gallery's logger can tee into it.
type ActivityLog struct {
	mu      sync.Mutex
	entries []ActivityEntry
	head    int
	count   int
}

// NewActivityLog creates a log with a fixed capacity.
func NewActivityLog() *ActivityLog {
	return &ActivityLog{entries: make([]ActivityEntry, logMaxEntries)}
}

// Add appends an entry, overwriting the oldest when full.
func (al *ActivityLog) Add(e ActivityEntry) {
	al.mu.Lock()
	defer al.mu.Unlock()
	al.entries[al.head] = e
	al.head = (al.head + 1) % logMaxEntries
	if al.count < logMaxEntries {
		al.count++
	}
}

// Recent returns entries oldest first.
func (al *ActivityLog) Recent() []ActivityEntry {
	al.mu.Lock()
	defer al.mu.Unlock()
	result := make([]ActivityEntry, al.count)
	for i := 0; i < al.count; i++ {
		idx := (al.head - al.count + i + logMaxEntries) % logMaxEntries
		result[i] = al.entries[idx]
	}
	return result
}

// Handler returns a slog handler feeding this log at info level and above.
func (al *ActivityLog) Handler() slog.Handler {
	return &activityHandler{log: al}
}

type activityHandler struct {
	log   *ActivityLog
	attrs []slog.Attr
	group string
}

func (h *activityHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (h *activityHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		// Tags carried by every record.
		if a.Key == logging.FieldSessionID || a.Key == logging.FieldComponent {
			return true
		}
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		fmt.Fprintf(&sb, " %s=%v", key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)
	h.log.Add(ActivityEntry{Time: r.Time, Level: r.Level, Message: sb.String()})
	return nil
}

func (h *activityHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &activityHandler{log: h.log, group: h.group}
	next.attrs = append(append(next.attrs, h.attrs...), attrs...)
	return next
}

func (h *activityHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &activityHandler{log: h.log, attrs: h.attrs, group: group}
}

// Draw renders the panel along the right edge of the screen.
func (al *ActivityLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 8, G: 10, B: 14, A: 230}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 18, G: 22, B: 32, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "ACTIVITY", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 60, B: 90, A: 200}, false)

	entries := al.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	const recent = 3

	maxChars := (logPanelWidth - 16) / 6
	y := 20
	for i, e := range visible {
		if i >= len(visible)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 28, G: 34, B: 48, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, levelColor(e.Level), false)

		line := e.Time.Format("15:04:05") + " " + e.Message
		if len(line) > maxChars {
			line = line[:maxChars]
		}
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += logLineHeight
	}
}

func levelColor(l slog.Level) color.RGBA {
	switch {
	case l >= slog.LevelError:
		return color.RGBA{R: 220, G: 70, B: 70, A: 255}
	case l >= slog.LevelWarn:
		return color.RGBA{R: 230, G: 170, B: 60, A: 255}
	default:
		return color.RGBA{R: 80, G: 180, B: 200, A: 255}
	}
}
