package pipeline

import "context"

// TriggerRequester asks the host scheduler to run a poll immediately
// instead of waiting for its normal schedule.
type TriggerRequester interface {
	// TriggerNow requests an immediate poll and waits for the scheduler to
	// acknowledge it, bounded by the context deadline.
	TriggerNow(ctx context.Context) error
}

// PollTrigger is a channel-based TriggerRequester. Requests are submitted
// without blocking; a request arriving while one is already pending is
// coalesced into it. The scheduler loop consumes Requests and calls Ack
// after each poll it runs.
type PollTrigger struct {
	requests chan struct{}
	acks     chan struct{}
}

// NewPollTrigger creates a trigger with a single pending-request slot.
func NewPollTrigger() *PollTrigger {
	return &PollTrigger{
		requests: make(chan struct{}, 1),
		acks:     make(chan struct{}, 1),
	}
}

// TriggerNow submits a poll request and waits for its acknowledgement.
func (t *PollTrigger) TriggerNow(ctx context.Context) error {
	select {
	case t.requests <- struct{}{}:
	default:
		// A request is already pending; coalesce into it.
	}

	select {
	case <-t.acks:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Requests exposes the pending-request channel to the scheduler loop.
func (t *PollTrigger) Requests() <-chan struct{} {
	return t.requests
}

// Ack signals that one requested poll has run. Acking with no waiter is a
// no-op so the scheduler never blocks on it.
func (t *PollTrigger) Ack() {
	select {
	case t.acks <- struct{}{}:
	default:
	}
}
