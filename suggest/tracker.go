package suggest

import "sync"

// Ticket identifies one lookup issued through a Tracker.
type Ticket struct {
	Gen   uint64
	Query string
}

// Tracker implements last-request-wins ordering for lookups. Each Begin
// supersedes every earlier ticket, so results for stale query text can be
// recognized and dropped when they arrive. The zero value is ready to use and
// it is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	gen   uint64
	query string
	live  bool
}

// Begin issues a ticket for a lookup of query, superseding all earlier
// tickets.
func (t *Tracker) Begin(query string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.query = query
	t.live = true
	return Ticket{Gen: t.gen, Query: query}
}

// Cancel supersedes all outstanding tickets without issuing a new one.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.query = ""
	t.live = false
}

// Current reports whether tk is the latest ticket and has not been canceled.
func (t *Tracker) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live && tk.Gen == t.gen && tk.Query == t.query
}

// Pending returns the latest live ticket, if any.
func (t *Tracker) Pending() (Ticket, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Ticket{Gen: t.gen, Query: t.query}, t.live
}
