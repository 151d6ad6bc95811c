package service

import "sync"

// Gate orders overlapping requests so that only the latest one may publish
// its result. A response that arrives after a newer request began is dropped.
type Gate struct {
	mu     sync.Mutex
	latest uint64
}

// Ticket identifies one request started through a Gate.
type Ticket struct {
	gate *Gate
	gen  uint64
}

// Begin starts a request, superseding every earlier ticket.
func (g *Gate) Begin() Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest++
	return Ticket{gate: g, gen: g.latest}
}

// Current reports whether no newer request has begun.
func (t Ticket) Current() bool {
	t.gate.mu.Lock()
	defer t.gate.mu.Unlock()
	return t.gen == t.gate.latest
}

// Commit runs apply only if t is still current, holding the gate so no newer
// request can begin in between.
func (t Ticket) Commit(apply func()) bool {
	t.gate.mu.Lock()
	defer t.gate.mu.Unlock()
	if t.gen != t.gate.latest {
		return false
	}
	apply()
	return true
}
