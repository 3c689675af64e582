package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	updatesHandled atomic.Uint64
	providerCalls  atomic.Uint64
	cacheHits      atomic.Uint64
	errorsTotal    atomic.Uint64

	// Latency tracking for provider calls
	fetchLatencySumNs atomic.Int64
	fetchLatencyCount atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordUpdate records one handled chat update.
func (m *Metrics) RecordUpdate() {
	m.updatesHandled.Add(1)
}

// RecordProviderCall records an outbound rate fetch with its latency.
func (m *Metrics) RecordProviderCall(latencyNs int64) {
	m.providerCalls.Add(1)
	m.fetchLatencySumNs.Add(latencyNs)
	m.fetchLatencyCount.Add(1)
}

// RecordCacheHit records a read served from the cached snapshot.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	UpdatesHandled uint64
	ProviderCalls  uint64
	CacheHits      uint64
	ErrorsTotal    uint64
	AvgFetchNs     int64
	Timestamp      time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgFetch int64
	count := m.fetchLatencyCount.Load()
	if count > 0 {
		avgFetch = m.fetchLatencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		UpdatesHandled: m.updatesHandled.Load(),
		ProviderCalls:  m.providerCalls.Load(),
		CacheHits:      m.cacheHits.Load(),
		ErrorsTotal:    m.errorsTotal.Load(),
		AvgFetchNs:     avgFetch,
		Timestamp:      time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.updatesHandled.Store(0)
	m.providerCalls.Store(0)
	m.cacheHits.Store(0)
	m.errorsTotal.Store(0)
	m.fetchLatencySumNs.Store(0)
	m.fetchLatencyCount.Store(0)
}
