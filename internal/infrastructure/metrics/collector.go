package metrics

import (
	"sync"
	"sync/atomic"
)

// Collector collects and aggregates metrics for the application.
type Collector struct {
	// API metrics
	apiRequests sync.Map // map[string]*uint64 - route -> count
	apiErrors   sync.Map // map[string]*uint64 - route -> error count
	apiDuration sync.Map // map[string]*durationValue - route -> total duration in seconds

	// Reconciliation metrics
	passes        uint64
	passErrors    uint64
	coalesced     uint64
	staleDiscards uint64
	passSeconds   durationValue
}

// durationValue holds duration with mutex for thread-safe updates.
type durationValue struct {
	mu           sync.Mutex
	totalSeconds float64
}

// APIMetrics holds API request metrics.
type APIMetrics struct {
	RequestCounts        map[string]uint64
	ErrorCounts          map[string]uint64
	TotalDurationSeconds map[string]float64
}

// ReconciliationMetrics holds reconciliation loop metrics.
type ReconciliationMetrics struct {
	Passes           uint64
	Errors           uint64
	Coalesced        uint64
	StaleDiscards    uint64
	TotalPassSeconds float64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordRequest records an API request.
func (c *Collector) RecordRequest(route string) {
	counter := c.getOrCreateCounter(&c.apiRequests, route)
	atomic.AddUint64(counter, 1)
}

// RecordError records an API error.
func (c *Collector) RecordError(route string) {
	counter := c.getOrCreateCounter(&c.apiErrors, route)
	atomic.AddUint64(counter, 1)
}

// RecordDuration records the duration of an API call in seconds.
func (c *Collector) RecordDuration(route string, durationSeconds float64) {
	val, _ := c.apiDuration.LoadOrStore(route, &durationValue{})
	dv := val.(*durationValue)

	dv.mu.Lock()
	dv.totalSeconds += durationSeconds
	dv.mu.Unlock()
}

// RecordPass records a completed reconciliation pass.
func (c *Collector) RecordPass(durationSeconds float64) {
	atomic.AddUint64(&c.passes, 1)
	c.passSeconds.mu.Lock()
	c.passSeconds.totalSeconds += durationSeconds
	c.passSeconds.mu.Unlock()
}

// RecordPassError records a failed reconciliation pass.
func (c *Collector) RecordPassError() {
	atomic.AddUint64(&c.passErrors, 1)
}

// RecordCoalesced records a trigger collapsed into an already pending pass.
func (c *Collector) RecordCoalesced() {
	atomic.AddUint64(&c.coalesced, 1)
}

// RecordStaleDiscard records a pass discarded because a newer trigger
// arrived while it was in flight.
func (c *Collector) RecordStaleDiscard() {
	atomic.AddUint64(&c.staleDiscards, 1)
}

// GetReconciliationMetrics returns current reconciliation metrics.
func (c *Collector) GetReconciliationMetrics() *ReconciliationMetrics {
	c.passSeconds.mu.Lock()
	total := c.passSeconds.totalSeconds
	c.passSeconds.mu.Unlock()

	return &ReconciliationMetrics{
		Passes:           atomic.LoadUint64(&c.passes),
		Errors:           atomic.LoadUint64(&c.passErrors),
		Coalesced:        atomic.LoadUint64(&c.coalesced),
		StaleDiscards:    atomic.LoadUint64(&c.staleDiscards),
		TotalPassSeconds: total,
	}
}

// GetAPIMetrics returns current API metrics.
func (c *Collector) GetAPIMetrics() *APIMetrics {
	result := &APIMetrics{
		RequestCounts:        make(map[string]uint64),
		ErrorCounts:          make(map[string]uint64),
		TotalDurationSeconds: make(map[string]float64),
	}

	c.apiRequests.Range(func(key, value interface{}) bool {
		route := key.(string)
		count := atomic.LoadUint64(value.(*uint64))
		result.RequestCounts[route] = count
		return true
	})

	c.apiErrors.Range(func(key, value interface{}) bool {
		route := key.(string)
		count := atomic.LoadUint64(value.(*uint64))
		result.ErrorCounts[route] = count
		return true
	})

	c.apiDuration.Range(func(key, value interface{}) bool {
		route := key.(string)
		dv := value.(*durationValue)
		dv.mu.Lock()
		result.TotalDurationSeconds[route] = dv.totalSeconds
		dv.mu.Unlock()
		return true
	})

	return result
}

// getOrCreateCounter gets or creates a counter for the given key.
func (c *Collector) getOrCreateCounter(m *sync.Map, key string) *uint64 {
	val, _ := m.LoadOrStore(key, new(uint64))
	return val.(*uint64)
}
