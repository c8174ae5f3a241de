package pipeline

import (
	"fmt"
	"sync"
)

// MetricID is an opaque handle to a registered metric.
type MetricID int

// Metric describes one registered metric: its handle, its configured name,
// the numeric kind of its values and a unit string.
type Metric struct {
	ID   MetricID
	Name string
	Kind ValueKind
	Unit string
}

// Registry maps configured metric names to registered metric handles.
// Registration happens once during plugin start; afterwards the table is
// read-shared across threads without further locking by callers.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Metric
	next   MetricID
}

// NewRegistry creates an empty metric registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Metric)}
}

// Register adds a metric under a unique name and returns its handle.
// Registering the same name twice is a caller bug and fails.
func (r *Registry) Register(name, unit string, kind ValueKind) (Metric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return Metric{}, fmt.Errorf("metric %q already registered", name)
	}

	m := Metric{ID: r.next, Name: name, Kind: kind, Unit: unit}
	r.next++
	r.byName[name] = m
	return m, nil
}

// Lookup returns the metric registered under name.
func (r *Registry) Lookup(name string) (Metric, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[name]
	return m, ok
}

// Len returns the number of registered metrics.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
