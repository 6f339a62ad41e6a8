package monitor

import "sync"

// Detector decides whether a rendered notification is news. Dedup is
// content-based: two polls that render identically are the same
// notification, whatever happened to the underlying shifts. A
// zero-shift cycle clears the snapshot, so the first non-empty cycle
// after a drought always notifies even if its body matches one sent
// before the drought.
type Detector struct {
	mu    sync.Mutex
	body  string
	count int
	has   bool
}

// ShouldNotify reports whether (body, count) differs from the last
// notification sent and records it as the new snapshot when it does.
func (d *Detector) ShouldNotify(body string, count int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if count == 0 {
		d.clear()
		return false
	}
	if d.has && d.body == body {
		return false
	}

	d.body = body
	d.count = count
	d.has = true
	return true
}

// Reset clears the snapshot, used on drought cycles where nothing is
// rendered at all.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clear()
}

func (d *Detector) clear() {
	d.body = ""
	d.count = 0
	d.has = false
}
