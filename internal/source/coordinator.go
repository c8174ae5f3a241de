// Package source implements the poll/fetch coordinator: the single-flight
// state machine that turns a "measurement cycle finished" event into one
// windowed Kwollect fetch, consumed by the next poll call.
package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mutualEvg/kwollect-input/internal/fetch"
	"github.com/mutualEvg/kwollect-input/internal/kwollect"
	"github.com/mutualEvg/kwollect-input/internal/pipeline"
)

// DefaultTriggerWait bounds how long the event handler waits for the
// requested poll to be acknowledged.
const DefaultTriggerWait = 1 * time.Second

// Config carries the coordinator's immutable settings.
type Config struct {
	APIBase string
	Site    string
	Nodes   []string
	Metrics []string

	// Kinds optionally overrides the value kind per metric name.
	// Metrics without an entry register as F64.
	Kinds map[string]pipeline.ValueKind

	// TriggerWait bounds the trigger acknowledgement wait.
	// Zero means DefaultTriggerWait.
	TriggerWait time.Duration
}

// CycleSummary describes the most recently completed fetch cycle.
type CycleSummary struct {
	Window      fetch.Window `json:"-"`
	WindowStart string       `json:"window_start"`
	WindowEnd   string       `json:"window_end"`
	Points      int          `json:"points"`
	Skipped     int          `json:"skipped"`
	CompletedAt time.Time    `json:"completed_at"`
	Error       string       `json:"error,omitempty"`
}

// Coordinator glues the lifecycle event, the trigger request and the poll
// call into one fetch cycle. At most one cycle is in flight at any time:
// the shared slot holds at most one pending URL and concurrent triggers
// coalesce into the latest window.
type Coordinator struct {
	cfg     Config
	client  *fetch.Client
	trigger pipeline.TriggerRequester
	slot    URLSlot

	// metrics is built during Start and read-only afterwards.
	metrics map[string]pipeline.Metric

	mu          sync.Mutex
	windowStart time.Time
	lastCycle   *CycleSummary
}

// New creates a coordinator. Start must run before any event or poll.
func New(cfg Config, client *fetch.Client, trigger pipeline.TriggerRequester) *Coordinator {
	if cfg.TriggerWait <= 0 {
		cfg.TriggerWait = DefaultTriggerWait
	}
	return &Coordinator{
		cfg:     cfg,
		client:  client,
		trigger: trigger,
		metrics: make(map[string]pipeline.Metric),
	}
}

// Start registers the configured metrics, arms the first fetch window and
// subscribes to cycle-completion events.
func (c *Coordinator) Start(registry *pipeline.Registry, events *pipeline.Subject) error {
	for _, name := range c.cfg.Metrics {
		kind := pipeline.KindF64
		if k, ok := c.cfg.Kinds[name]; ok {
			kind = k
		}
		metric, err := registry.Register(name, "", kind)
		if err != nil {
			return fmt.Errorf("registering metric %q: %w", name, err)
		}
		c.metrics[name] = metric
	}

	c.mu.Lock()
	c.windowStart = time.Now()
	c.mu.Unlock()

	events.Attach(c)
	log.Info().
		Str("site", c.cfg.Site).
		Strs("nodes", c.cfg.Nodes).
		Strs("metrics", c.cfg.Metrics).
		Msg("Kwollect input started, waiting for cycle events")
	return nil
}

// Notify handles one cycle-completion event: it closes the current window,
// renders the query URL, hands it to the poll side and requests an
// immediate poll. All failures on this path are logged and swallowed so
// the subscription is never torn down.
func (c *Coordinator) Notify(event pipeline.CycleEvent) error {
	end := time.Now()

	c.mu.Lock()
	start := c.windowStart
	c.mu.Unlock()

	window := fetch.Window{Start: start, End: end}
	url := fetch.BuildMetricsURL(c.cfg.APIBase, c.cfg.Site, c.cfg.Nodes, c.cfg.Metrics, window)

	if c.slot.Offer(PendingFetch{URL: url, Window: window}) {
		log.Warn().
			Str("consumer", event.Consumer).
			Msg("Previous fetch window never consumed, replaced by the newer one")
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.TriggerWait)
	defer cancel()
	if err := c.trigger.TriggerNow(ctx); err != nil {
		log.Error().Err(err).Msg("Poll trigger not acknowledged in time")
	}
	return nil
}

// Poll consumes the pending fetch, if any, and emits the normalized points
// into the accumulator. An empty or contended slot is a logged no-op. The
// remote round-trip happens here, on the host's blocking poll path, never
// under the slot lock.
func (c *Coordinator) Poll(ctx context.Context, acc *pipeline.Accumulator, ts time.Time) error {
	pending, status := c.slot.TryTake()
	switch status {
	case TakeBusy:
		log.Debug().Msg("Fetch slot contended, skipping this poll")
		return nil
	case TakeEmpty:
		log.Debug().Msg("No fetch pending, nothing to poll")
		return nil
	}

	body, err := c.client.Fetch(ctx, pending.URL)
	if err != nil {
		c.recordCycle(pending.Window, 0, 0, err)
		return fmt.Errorf("fetch cycle failed: %w", err)
	}

	measures, skipped, err := kwollect.ParseMeasurements(body)
	if err != nil {
		// Nothing to emit; the cycle ends cleanly.
		log.Error().Err(err).Str("url", pending.URL).Msg("Measurement batch unusable")
		c.recordCycle(pending.Window, 0, 0, err)
		return nil
	}

	emitted := 0
	for _, m := range measures {
		point, err := MapMeasure(m, c.lookupMetric, ts)
		if err != nil {
			log.Warn().Err(err).Str("device_id", m.DeviceID).Msg("Dropping unmappable measurement")
			continue
		}
		acc.Push(point)
		emitted++
	}

	c.mu.Lock()
	c.windowStart = pending.Window.End
	c.mu.Unlock()
	c.recordCycle(pending.Window, emitted, skipped, nil)

	log.Info().
		Int("points", emitted).
		Int("skipped", skipped).
		Str("window_start", fetch.FormatAPITime(pending.Window.Start)).
		Str("window_end", fetch.FormatAPITime(pending.Window.End)).
		Msg("Fetch cycle completed")
	return nil
}

func (c *Coordinator) lookupMetric(name string) (pipeline.Metric, bool) {
	m, ok := c.metrics[name]
	return m, ok
}

func (c *Coordinator) recordCycle(w fetch.Window, points, skipped int, err error) {
	summary := &CycleSummary{
		Window:      w,
		WindowStart: fetch.FormatAPITime(w.Start),
		WindowEnd:   fetch.FormatAPITime(w.End),
		Points:      points,
		Skipped:     skipped,
		CompletedAt: time.Now(),
	}
	if err != nil {
		summary.Error = err.Error()
	}

	c.mu.Lock()
	c.lastCycle = summary
	c.mu.Unlock()
}

// LastCycle returns a copy of the most recent cycle summary, or false if
// no cycle has completed yet.
func (c *Coordinator) LastCycle() (CycleSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastCycle == nil {
		return CycleSummary{}, false
	}
	return *c.lastCycle, true
}
