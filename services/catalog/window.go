package catalog

import "time"

// Preset names for the catalog time filter.
const (
	PresetNow     = "now"
	PresetNext2h  = "next2h"
	PresetTonight = "tonight"
)

// Window is an absolute time interval. End is exclusive unless EndInclusive
// is set ("tonight" runs through the literal last millisecond of the day).
type Window struct {
	Start        time.Time
	End          time.Time
	EndInclusive bool
}

// NormalizePreset maps unknown or empty presets to "now".
func NormalizePreset(preset string) string {
	switch preset {
	case PresetNow, PresetNext2h, PresetTonight:
		return preset
	default:
		return PresetNow
	}
}

// ComputeWindow anchors a preset at now:
//
//	now     → [now, now+90m)
//	next2h  → [now, now+2h)
//	tonight → [today 18:00, today 23:59:59.999]
func ComputeWindow(preset string, now time.Time) Window {
	switch NormalizePreset(preset) {
	case PresetNext2h:
		return Window{Start: now, End: now.Add(2 * time.Hour)}
	case PresetTonight:
		start := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location())
		end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999_000_000, now.Location())
		return Window{Start: start, End: end, EndInclusive: true}
	default:
		return Window{Start: now, End: now.Add(90 * time.Minute)}
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if w.EndInclusive {
		return !t.After(w.End)
	}
	return t.Before(w.End)
}
