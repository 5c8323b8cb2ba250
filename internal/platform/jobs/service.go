package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const JobTierRecalculation = "tier_recalculation"

const (
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
)

type RunFunc func(context.Context) (any, error)

// RunStore persists one row per job execution.
type RunStore interface {
	StartRun(ctx context.Context, jobType, triggeredBy string) (string, error)
	FinishRun(ctx context.Context, runID, status string, details []byte) error
}

// Observer is notified after every run so callers can count outcomes.
type Observer interface {
	RecordJob(jobType string, ok bool, duration time.Duration)
}

type Service struct {
	Runs     RunStore
	Observer Observer
	queue    chan job
}

type job struct {
	Type        string
	TriggeredBy string
	Run         RunFunc
}

func New(runs RunStore, observer Observer) *Service {
	return &Service{
		Runs:     runs,
		Observer: observer,
		queue:    make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

// Schedule enqueues run every interval until ctx is done. A non-positive
// interval disables the schedule.
func (s *Service) Schedule(ctx context.Context, jobType string, interval time.Duration, run RunFunc) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Enqueue(jobType, "scheduler", run)
			}
		}
	}()
}

func (s *Service) Enqueue(jobType, triggeredBy string, run RunFunc) bool {
	select {
	case s.queue <- job{Type: jobType, TriggeredBy: triggeredBy, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

// RunNow executes synchronously on the caller's goroutine, recording the run
// exactly like a queued job.
func (s *Service) RunNow(ctx context.Context, jobType, triggeredBy string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, TriggeredBy: triggeredBy, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	started := time.Now()
	runID := ""
	if s.Runs != nil {
		id, err := s.Runs.StartRun(ctx, j.Type, j.TriggeredBy)
		if err != nil {
			slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
		}
		runID = id
	}

	details, err := j.Run(ctx)
	status := statusCompleted
	if err != nil {
		status = statusFailed
		details = map[string]any{"error": err.Error()}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if updErr := s.Runs.FinishRun(ctx, runID, status, detailsJSON); updErr != nil {
			slog.Warn("job run update failed", "jobType", j.Type, "err", updErr)
		}
	}
	if s.Observer != nil {
		s.Observer.RecordJob(j.Type, err == nil, time.Since(started))
	}
	slog.Info("job finished", "jobType", j.Type, "status", status, "durationMs", time.Since(started).Milliseconds())
	return details, err
}

// PGRunStore keeps job history in the job_runs table.
type PGRunStore struct {
	DB *pgxpool.Pool
}

func (p PGRunStore) StartRun(ctx context.Context, jobType, triggeredBy string) (string, error) {
	var runID string
	err := p.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status, triggered_by)
    VALUES ($1,$2,$3)
    RETURNING id
  `, jobType, statusRunning, triggeredBy).Scan(&runID)
	return runID, err
}

func (p PGRunStore) FinishRun(ctx context.Context, runID, status string, details []byte) error {
	_, err := p.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, details, runID)
	return err
}
