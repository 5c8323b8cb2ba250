package metrics

import (
	"testing"
	"time"
)

func TestCollectorRecord(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(404, 20*time.Millisecond)
	c.Record(429, 0)
	c.Record(500, 30*time.Millisecond)

	snap := c.Snapshot()
	if snap.RequestsTotal != 4 {
		t.Fatalf("expected 4 requests, got %d", snap.RequestsTotal)
	}
	if snap.ErrorsTotal != 1 {
		t.Fatalf("expected 1 server error, got %d", snap.ErrorsTotal)
	}
	if snap.ClientErrors != 2 {
		t.Fatalf("expected 2 client errors, got %d", snap.ClientErrors)
	}
	if snap.RateLimitedTotal != 1 {
		t.Fatalf("expected 1 rate limited, got %d", snap.RateLimitedTotal)
	}
	if snap.AvgDurationMs != 15 {
		t.Fatalf("expected avg 15ms, got %v", snap.AvgDurationMs)
	}
}

func TestCollectorRecordJob(t *testing.T) {
	c := New()
	c.RecordJob("tier_recalculation", true, 40*time.Millisecond)
	c.RecordJob("tier_recalculation", false, 20*time.Millisecond)

	stats := c.Snapshot().Jobs["tier_recalculation"]
	if stats.Runs != 2 || stats.Failures != 1 {
		t.Fatalf("expected 2 runs and 1 failure, got %+v", stats)
	}
	if stats.LastStatus != "failed" {
		t.Fatalf("expected last status failed, got %q", stats.LastStatus)
	}
	if stats.AvgMs != 30 {
		t.Fatalf("expected avg 30ms, got %v", stats.AvgMs)
	}
}
