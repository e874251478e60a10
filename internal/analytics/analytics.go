// Package analytics defines the order-latency event stream and the running
// statistics collector that consumes it.
//
// Events are emitted by the ordering boundary (not the coordinator) after
// each order round-trip, published as JSON on the ANALYTICS broadcast topic.
// The collector keeps running aggregates only; there is no persistence and
// no concurrency beyond a mutex for the subscriber goroutine.
package analytics

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Topic is the broadcast topic analytics events are published on.
const Topic = "ANALYTICS"

// Event describes one completed order round-trip at the ordering boundary.
type Event struct {
	EventID     string  `json:"event_id"`
	Source      string  `json:"source"`
	EventType   string  `json:"event_type"`
	TimestampMs int64   `json:"timestamp_ms"`
	LatencyMs   float64 `json:"latency_ms"`
	Success     bool    `json:"success"`
}

// NewEvent builds an event with a fresh id and the current timestamp.
func NewEvent(source, eventType string, latency time.Duration, success bool) Event {
	return Event{
		EventID:     uuid.NewString(),
		Source:      source,
		EventType:   eventType,
		TimestampMs: time.Now().UnixMilli(),
		LatencyMs:   float64(latency.Microseconds()) / 1000.0,
		Success:     success,
	}
}

// TypeStats are the per-event-type aggregates.
type TypeStats struct {
	Count        int
	Success      int
	Failed       int
	AvgLatencyMs float64
}

// Stats is a point-in-time snapshot of the collector.
type Stats struct {
	TotalOrders  int
	Successful   int
	Failed       int
	AvgLatencyMs float64
	MinLatencyMs float64
	MaxLatencyMs float64
	ByType       map[string]TypeStats
}

type typeAccum struct {
	count, success, failed int
	totalLatency           float64
}

// Collector accumulates running statistics over analytics events.
type Collector struct {
	mu           sync.Mutex
	total        int
	successful   int
	failed       int
	totalLatency float64
	minLatency   float64
	maxLatency   float64
	byType       map[string]*typeAccum
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		minLatency: math.Inf(1),
		byType:     make(map[string]*typeAccum),
	}
}

// Record folds one event into the running aggregates.
func (c *Collector) Record(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	c.totalLatency += e.LatencyMs
	if e.LatencyMs < c.minLatency {
		c.minLatency = e.LatencyMs
	}
	if e.LatencyMs > c.maxLatency {
		c.maxLatency = e.LatencyMs
	}
	if e.Success {
		c.successful++
	} else {
		c.failed++
	}

	acc, ok := c.byType[e.EventType]
	if !ok {
		acc = &typeAccum{}
		c.byType[e.EventType] = acc
	}
	acc.count++
	acc.totalLatency += e.LatencyMs
	if e.Success {
		acc.success++
	} else {
		acc.failed++
	}
}

// Stats returns a snapshot of the aggregates. Min latency is 0 before any
// event has been recorded.
func (c *Collector) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		TotalOrders:  c.total,
		Successful:   c.successful,
		Failed:       c.failed,
		MaxLatencyMs: c.maxLatency,
		ByType:       make(map[string]TypeStats, len(c.byType)),
	}
	if c.total > 0 {
		s.AvgLatencyMs = c.totalLatency / float64(c.total)
	}
	if !math.IsInf(c.minLatency, 1) {
		s.MinLatencyMs = c.minLatency
	}
	for typ, acc := range c.byType {
		ts := TypeStats{Count: acc.count, Success: acc.success, Failed: acc.failed}
		if acc.count > 0 {
			ts.AvgLatencyMs = acc.totalLatency / float64(acc.count)
		}
		s.ByType[typ] = ts
	}
	return s
}
