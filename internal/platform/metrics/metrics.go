package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	clientErrors    uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	mu   sync.Mutex
	jobs map[string]*jobStats
}

type jobStats struct {
	Runs       uint64  `json:"runs"`
	Failures   uint64  `json:"failures"`
	LastMs     int64   `json:"lastDurationMs"`
	LastStatus string  `json:"lastStatus"`
	AvgMs      float64 `json:"avgDurationMs"`
	totalMs    int64
}

type Snapshot struct {
	RequestsTotal    uint64              `json:"requestsTotal"`
	ClientErrors     uint64              `json:"clientErrorsTotal"`
	ErrorsTotal      uint64              `json:"errorsTotal"`
	RateLimitedTotal uint64              `json:"rateLimitedTotal"`
	AvgDurationMs    float64             `json:"avgDurationMs"`
	TotalDurationMs  uint64              `json:"totalDurationMs"`
	Jobs             map[string]jobStats `json:"jobs"`
}

func New() *Collector {
	return &Collector{jobs: map[string]*jobStats{}}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	switch {
	case status >= 500:
		atomic.AddUint64(&c.errorRequests, 1)
	case status == 429:
		atomic.AddUint64(&c.rateLimited, 1)
		atomic.AddUint64(&c.clientErrors, 1)
	case status >= 400:
		atomic.AddUint64(&c.clientErrors, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordJob(jobType string, ok bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats, exists := c.jobs[jobType]
	if !exists {
		stats = &jobStats{}
		c.jobs[jobType] = stats
	}
	stats.Runs++
	stats.LastMs = duration.Milliseconds()
	stats.totalMs += stats.LastMs
	stats.LastStatus = "completed"
	if !ok {
		stats.Failures++
		stats.LastStatus = "failed"
	}
	stats.AvgMs = float64(stats.totalMs) / float64(stats.Runs)
}

func (c *Collector) Snapshot() Snapshot {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	c.mu.Lock()
	jobs := make(map[string]jobStats, len(c.jobs))
	for name, stats := range c.jobs {
		jobs[name] = *stats
	}
	c.mu.Unlock()

	return Snapshot{
		RequestsTotal:    total,
		ClientErrors:     atomic.LoadUint64(&c.clientErrors),
		ErrorsTotal:      atomic.LoadUint64(&c.errorRequests),
		RateLimitedTotal: atomic.LoadUint64(&c.rateLimited),
		AvgDurationMs:    avg,
		TotalDurationMs:  totalMs,
		Jobs:             jobs,
	}
}
