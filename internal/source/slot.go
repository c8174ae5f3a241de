package source

import (
	"sync"

	"github.com/mutualEvg/kwollect-input/internal/fetch"
)

// PendingFetch couples a rendered query URL with the window it covers.
type PendingFetch struct {
	URL    string
	Window fetch.Window
}

// TakeStatus reports the outcome of a TryTake.
type TakeStatus int

const (
	// TakeOK means a pending fetch was consumed.
	TakeOK TakeStatus = iota

	// TakeEmpty means no fetch was pending. Steady state, not an error.
	TakeEmpty

	// TakeBusy means the slot lock was contended; the caller should skip
	// this cycle and rely on the next trigger.
	TakeBusy
)

// URLSlot is a single-slot mailbox between the event handler that computes
// a fetch URL and the poll call that consumes it. It never holds more than
// one pending fetch: a second Offer before consumption overwrites the slot,
// last-write-wins. The lock is held only for the instant of writing or
// reading+clearing, never across network I/O.
type URLSlot struct {
	mu      sync.Mutex
	pending PendingFetch
	set     bool
}

// Offer stores a pending fetch, replacing any unconsumed one. It reports
// whether a pending fetch was overwritten so the caller can log the
// coalescing.
func (s *URLSlot) Offer(p PendingFetch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	overwrote := s.set
	s.pending = p
	s.set = true
	return overwrote
}

// TryTake consumes the pending fetch without blocking. Contention degrades
// to TakeBusy rather than stalling the poll thread.
func (s *URLSlot) TryTake() (PendingFetch, TakeStatus) {
	if !s.mu.TryLock() {
		return PendingFetch{}, TakeBusy
	}
	defer s.mu.Unlock()

	if !s.set {
		return PendingFetch{}, TakeEmpty
	}
	p := s.pending
	s.pending = PendingFetch{}
	s.set = false
	return p, TakeOK
}
