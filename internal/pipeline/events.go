package pipeline

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CycleEvent announces that a downstream consumer finished one measurement
// cycle. It is the sole trigger for a remote fetch.
type CycleEvent struct {
	// CompletedAt is when the consumer finished its cycle
	CompletedAt time.Time

	// Consumer names the pipeline element that completed, for logging
	Consumer string
}

// Observer is notified of measurement-cycle completions.
type Observer interface {
	// Notify delivers one cycle event to the observer
	Notify(event CycleEvent) error
}

// Subject manages a collection of observers and notifies them of
// cycle-completion events.
type Subject struct {
	observers []Observer
	mu        sync.RWMutex
}

// NewSubject creates a new event subject.
func NewSubject() *Subject {
	return &Subject{
		observers: make([]Observer, 0),
	}
}

// Attach adds an observer to the subject.
func (s *Subject) Attach(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Notify sends an event to all attached observers.
// Errors from individual observers are logged but never detach the observer
// or stop notification of the others.
func (s *Subject) Notify(event CycleEvent) {
	s.mu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Notify(event); err != nil {
			log.Error().Err(err).Str("consumer", event.Consumer).Msg("Cycle observer failed")
		}
	}
}

// HasObservers returns true if there are any observers attached.
func (s *Subject) HasObservers() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers) > 0
}
