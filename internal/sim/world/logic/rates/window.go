package rates

// Window is a fixed-window counter. Time is whatever monotonic unit the caller
// uses (ticks, milliseconds); window and retryAfter are in the same unit.
type Window struct {
	Start uint64
	Count int
}

// Allow counts one event at now and reports whether it fits in the window.
// A zero window or non-positive max disables the limit.
func (w *Window) Allow(now, window uint64, max int) (ok bool, retryAfter uint64) {
	if window == 0 || max <= 0 {
		return true, 0
	}
	if w.Count == 0 || now-w.Start >= window {
		w.Start = now
		w.Count = 0
	}
	w.Count++
	if w.Count <= max {
		return true, 0
	}
	return false, (w.Start + window) - now
}
