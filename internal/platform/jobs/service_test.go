package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeRuns struct {
	mu       sync.Mutex
	started  []string
	finished map[string]string
	details  map[string][]byte
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{finished: map[string]string{}, details: map[string][]byte{}}
}

func (f *fakeRuns) StartRun(_ context.Context, jobType, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, jobType)
	return "run-" + jobType, nil
}

func (f *fakeRuns) FinishRun(_ context.Context, runID, status string, details []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished[runID] = status
	f.details[runID] = details
	return nil
}

type countingObserver struct {
	mu      sync.Mutex
	ok, bad int
}

func (c *countingObserver) RecordJob(_ string, ok bool, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ok {
		c.ok++
	} else {
		c.bad++
	}
}

func TestRunNowRecordsCompletedRun(t *testing.T) {
	runs := newFakeRuns()
	obs := &countingObserver{}
	svc := New(runs, obs)

	out, err := svc.RunNow(context.Background(), JobTierRecalculation, "u1", func(context.Context) (any, error) {
		return map[string]int{"updated": 2}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(map[string]int)["updated"] != 2 {
		t.Fatalf("expected details passthrough, got %v", out)
	}
	if runs.finished["run-"+JobTierRecalculation] != statusCompleted {
		t.Fatalf("expected completed status, got %q", runs.finished["run-"+JobTierRecalculation])
	}
	if obs.ok != 1 || obs.bad != 0 {
		t.Fatalf("expected one successful observation, got ok=%d bad=%d", obs.ok, obs.bad)
	}
}

func TestRunNowRecordsFailure(t *testing.T) {
	runs := newFakeRuns()
	svc := New(runs, nil)

	_, err := svc.RunNow(context.Background(), "broken", "scheduler", func(context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if runs.finished["run-broken"] != statusFailed {
		t.Fatalf("expected failed status, got %q", runs.finished["run-broken"])
	}
	var details map[string]string
	if err := json.Unmarshal(runs.details["run-broken"], &details); err != nil {
		t.Fatalf("details not json: %v", err)
	}
	if details["error"] != "boom" {
		t.Fatalf("expected error detail, got %v", details)
	}
}

func TestWorkerDrainsQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := New(nil, nil)
	svc.Start(ctx)

	done := make(chan struct{})
	if !svc.Enqueue("queued", "test", func(context.Context) (any, error) {
		close(done)
		return nil, nil
	}) {
		t.Fatal("expected enqueue to succeed")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job did not run")
	}
}
