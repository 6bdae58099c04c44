package ticketreg

import "sync/atomic"

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID uint16

const (
	// MetricTicketsAdded counts tickets persisted by AddTicket.
	MetricTicketsAdded MetricID = iota
	// MetricTicketsFetched counts successful GetTicket reads.
	MetricTicketsFetched
	// MetricTicketsNotFound counts lookups reporting absent or expired.
	MetricTicketsNotFound
	// MetricLazyEvictions counts expired tickets deleted on the read path.
	MetricLazyEvictions
	// MetricTicketsDeleted counts store entries removed by cascade deletes.
	MetricTicketsDeleted
	// MetricDecodeFailures counts decrypt/deserialize failures.
	MetricDecodeFailures
	// MetricOrphanCleanups counts encoded tickets removed because the
	// cipher was disabled.
	MetricOrphanCleanups

	metricIDCount
)

// Metrics holds atomic counters for registry events. All operations are
// no-ops when the registry was built with metrics disabled, and safe on a
// nil receiver.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

// NewMetrics creates a [Metrics] instance. When cfg.Enabled is false, all
// operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments the counter by one.
func (m *Metrics) Inc(id MetricID) {
	m.Add(id, 1)
}

// Add increments the counter by n.
func (m *Metrics) Add(id MetricID, n uint64) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(n)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot returns a deep copy of the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}

// MetricsSnapshot returns a point-in-time copy of the registry's counters.
func (r *Registry) MetricsSnapshot() MetricsSnapshot {
	if r == nil || r.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return r.metrics.Snapshot()
}
