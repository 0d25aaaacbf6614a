package flow

import "time"

// deduper drops a payload identical to the last accepted one within window.
// It outlives scanner sessions: re-opening the scanner does not reset it.
type deduper struct {
	window   time.Duration
	lastText string
	lastAt   time.Time
}

// accept records text as seen at now and reports whether it is new.
func (d *deduper) accept(text string, now time.Time) bool {
	if text == d.lastText && now.Sub(d.lastAt) < d.window {
		return false
	}
	d.lastText = text
	d.lastAt = now
	return true
}
