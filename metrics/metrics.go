// Package metrics counts what the proxy did with each request, for the
// admin stats endpoint.
package metrics

import (
	"sync/atomic"
	"time"
)

// Collector accumulates request counters. All methods are safe for
// concurrent use.
type Collector struct {
	startTime       time.Time
	requests        int64
	rejected        int64
	hits            int64
	misses          int64
	revalidated     int64
	notModified     int64
	staleServed     int64
	unverifiedStale int64
	evictions       int64
	originFailures  int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Timestamp       time.Time `json:"timestamp"`
	StartTime       time.Time `json:"start_time"`
	Uptime          string    `json:"uptime"`
	Requests        int64     `json:"requests"`
	Rejected        int64     `json:"rejected_requests"`
	Hits            int64     `json:"cache_hits"`
	Misses          int64     `json:"cache_misses"`
	Revalidated     int64     `json:"revalidated"`
	NotModified     int64     `json:"not_modified"`
	StaleServed     int64     `json:"stale_served"`
	UnverifiedStale int64     `json:"unverified_stale"`
	Evictions       int64     `json:"evictions"`
	OriginFailures  int64     `json:"origin_failures"`
}

func New() *Collector {
	return &Collector{startTime: time.Now()}
}

func (c *Collector) RecordRequest()         { atomic.AddInt64(&c.requests, 1) }
func (c *Collector) RecordRejected()        { atomic.AddInt64(&c.rejected, 1) }
func (c *Collector) RecordHit()             { atomic.AddInt64(&c.hits, 1) }
func (c *Collector) RecordMiss()            { atomic.AddInt64(&c.misses, 1) }
func (c *Collector) RecordRevalidated()     { atomic.AddInt64(&c.revalidated, 1) }
func (c *Collector) RecordNotModified()     { atomic.AddInt64(&c.notModified, 1) }
func (c *Collector) RecordStaleServed()     { atomic.AddInt64(&c.staleServed, 1) }
func (c *Collector) RecordUnverifiedStale() { atomic.AddInt64(&c.unverifiedStale, 1) }
func (c *Collector) RecordEviction()        { atomic.AddInt64(&c.evictions, 1) }
func (c *Collector) RecordOriginFailure()   { atomic.AddInt64(&c.originFailures, 1) }

// Snapshot returns a copy of the current counter values.
func (c *Collector) Snapshot() Snapshot {
	now := time.Now()
	return Snapshot{
		Timestamp:       now,
		StartTime:       c.startTime,
		Uptime:          now.Sub(c.startTime).String(),
		Requests:        atomic.LoadInt64(&c.requests),
		Rejected:        atomic.LoadInt64(&c.rejected),
		Hits:            atomic.LoadInt64(&c.hits),
		Misses:          atomic.LoadInt64(&c.misses),
		Revalidated:     atomic.LoadInt64(&c.revalidated),
		NotModified:     atomic.LoadInt64(&c.notModified),
		StaleServed:     atomic.LoadInt64(&c.staleServed),
		UnverifiedStale: atomic.LoadInt64(&c.unverifiedStale),
		Evictions:       atomic.LoadInt64(&c.evictions),
		OriginFailures:  atomic.LoadInt64(&c.originFailures),
	}
}
