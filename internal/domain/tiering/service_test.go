package tiering

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/freelancer"
	"workforce/internal/domain/notifications"
	"workforce/internal/platform/cache"
)

type fakeStore struct {
	subjects  map[string]Subject
	scores    map[string][]*float64
	failFor   string
	updates   int
	distCalls int
	lastSince *time.Time
}

func score(v float64) *float64 { return &v }

func newFakeStore() *fakeStore {
	return &fakeStore{
		subjects: map[string]Subject{
			"fl-1": {ID: "fl-1", FreelancerCode: "FL-0001", UserID: "u-1", FirstName: "Ada", LastName: "L", Status: "ACTIVE", CurrentTier: freelancer.TierBronze, CurrentGrade: freelancer.GradeC},
			"fl-2": {ID: "fl-2", FreelancerCode: "FL-0002", UserID: "u-2", FirstName: "Grace", LastName: "H", Status: "ACTIVE", CurrentTier: freelancer.TierSilver, CurrentGrade: freelancer.GradeB},
			"fl-3": {ID: "fl-3", FreelancerCode: "FL-0003", UserID: "u-3", FirstName: "Alan", LastName: "T", Status: "ACTIVE", CurrentTier: freelancer.TierBronze, CurrentGrade: freelancer.GradeC},
			"fl-4": {ID: "fl-4", FreelancerCode: "FL-0004", UserID: "u-4", FirstName: "Edsger", LastName: "D", Status: "ACTIVE", CurrentTier: freelancer.TierBronze, CurrentGrade: freelancer.GradeC},
			"fl-5": {ID: "fl-5", FreelancerCode: "FL-0005", UserID: "u-5", FirstName: "Barbara", LastName: "L", Status: "ACTIVE", CurrentTier: freelancer.TierBronze, CurrentGrade: freelancer.GradeC},
		},
		scores: map[string][]*float64{
			"fl-1": {score(5), score(5), score(5)},
			"fl-2": {score(2), score(3), score(4)},
			"fl-3": {},
			"fl-4": {nil, nil},
			"fl-5": {score(4)},
		},
		failFor: "fl-5",
	}
}

func (f *fakeStore) Subject(_ context.Context, id string) (Subject, error) {
	for _, s := range f.subjects {
		if s.ID == id || s.FreelancerCode == id {
			return s, nil
		}
	}
	return Subject{}, pgx.ErrNoRows
}

func (f *fakeStore) ActiveSubjects(context.Context) ([]Subject, error) {
	out := []Subject{}
	for _, id := range []string{"fl-1", "fl-2", "fl-3", "fl-4", "fl-5"} {
		out = append(out, f.subjects[id])
	}
	return out, nil
}

func (f *fakeStore) OverallScores(_ context.Context, id string, since *time.Time, _ string) (int, []float64, error) {
	f.lastSince = since
	if id == f.failFor {
		return 0, nil, errors.New("connection reset")
	}
	values := []float64{}
	for _, v := range f.scores[id] {
		if v != nil {
			values = append(values, *v)
		}
	}
	return len(f.scores[id]), values, nil
}

func (f *fakeStore) UpdateTierGrade(_ context.Context, id, tier, grade string) error {
	s, ok := f.subjects[id]
	if !ok {
		return pgx.ErrNoRows
	}
	f.updates++
	s.CurrentTier, s.CurrentGrade = freelancer.Tier(tier), freelancer.Grade(grade)
	f.subjects[id] = s
	return nil
}

func (f *fakeStore) Distribution(context.Context) ([]TierGradeCount, error) {
	f.distCalls++
	counts := map[string]*TierGradeCount{}
	for _, s := range f.subjects {
		key := s.Label()
		if counts[key] == nil {
			counts[key] = &TierGradeCount{Tier: string(s.CurrentTier), Grade: string(s.CurrentGrade)}
		}
		counts[key].Count++
	}
	out := []TierGradeCount{}
	for _, c := range counts {
		out = append(out, *c)
	}
	return out, nil
}

type recordingNotifier struct {
	notes  []notifications.Input
	emails int
}

func (r *recordingNotifier) Notify(_ context.Context, in notifications.Input) { r.notes = append(r.notes, in) }
func (r *recordingNotifier) Email(context.Context, string, string, string) { r.emails++ }

func newTestService(store *fakeStore) (*Service, *recordingNotifier) {
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier, cache.NewMemory(), time.Minute)
	svc.Now = func() time.Time { return time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC) }
	return svc, notifier
}

func TestCalculateIsReadOnly(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	res, err := svc.Calculate(context.Background(), "FL-0001", Options{Period: "last_quarter"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Changed || res.Recommended.Tier != freelancer.TierPlatinum || res.Recommended.Grade != freelancer.GradeA {
		t.Fatalf("unexpected recommendation %+v", res)
	}
	if res.Message != "Tier/Grade changed from BRONZE-C to PLATINUM-A" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if res.Calculation.Period != PeriodLastQuarter || store.lastSince == nil {
		t.Fatalf("expected quarter window, got %v", res.Calculation.Period)
	}
	if store.updates != 0 {
		t.Fatalf("expected no writes, got %d", store.updates)
	}
}

func TestCalculateNoChangeAndNoData(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	res, err := svc.Calculate(context.Background(), "fl-2", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Changed || res.Message != "No change in tier/grade" || res.Calculation.Period != PeriodAll {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Calculation.Consistency != 0.73 {
		t.Fatalf("expected consistency 0.73, got %v", res.Calculation.Consistency)
	}

	if _, err := svc.Calculate(context.Background(), "fl-3", Options{}); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected no records, got %v", err)
	}
	if _, err := svc.Calculate(context.Background(), "fl-4", Options{}); !errors.Is(err, ErrNoScores) {
		t.Fatalf("expected no scores, got %v", err)
	}
	if _, err := svc.Calculate(context.Background(), "fl-404", Options{}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApplyValidatesBeforeWriting(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	tests := []struct {
		name string
		in   ApplyInput
		want error
	}{
		{name: "missing grade", in: ApplyInput{Tier: "GOLD"}, want: ErrTierGradeRequired},
		{name: "unknown tier", in: ApplyInput{Tier: "DIAMOND", Grade: "A"}, want: ErrInvalidTierGrade},
		{name: "unknown grade", in: ApplyInput{Tier: "GOLD", Grade: "D"}, want: ErrInvalidTierGrade},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Apply(context.Background(), "fl-1", tc.in, "admin"); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if store.updates != 0 || store.subjects["fl-1"].CurrentTier != freelancer.TierBronze {
		t.Fatal("expected freelancer untouched")
	}
}

func TestApplyOverwritesAndNotifies(t *testing.T) {
	store := newFakeStore()
	svc, notifier := newTestService(store)

	res, err := svc.Apply(context.Background(), "fl-1", ApplyInput{Tier: "GOLD", Grade: "B"}, "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Change.From != "BRONZE-C" || res.Change.To != "GOLD-B" || res.Change.Reason != "Performance-based update" || res.Change.ChangedBy != "admin-1" {
		t.Fatalf("unexpected change %+v", res.Change)
	}
	if store.subjects["fl-1"].CurrentTier != freelancer.TierGold {
		t.Fatalf("expected GOLD stored, got %s", store.subjects["fl-1"].CurrentTier)
	}
	if len(notifier.notes) != 1 || notifier.notes[0].Type != notifications.TypeTierUpdate || notifier.emails != 1 {
		t.Fatalf("expected one tier notification and email, got %+v", notifier.notes)
	}
}

func TestBulkIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	res, err := svc.Bulk(context.Background(), BulkOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := BulkSummary{Total: 5, ChangesDetected: 1, NoChange: 1, Skipped: 2, Errors: 1}
	if res.Summary != want {
		t.Fatalf("expected %+v, got %+v", want, res.Summary)
	}
	if store.updates != 0 {
		t.Fatalf("expected no writes without autoApply, got %d", store.updates)
	}
	if res.Results[2].Reason != "No performance records" || res.Results[3].Reason != "No valid scores" {
		t.Fatalf("unexpected skip reasons %+v %+v", res.Results[2], res.Results[3])
	}
	if res.Results[4].Status != BulkError || res.Results[4].Error == "" {
		t.Fatalf("expected error item, got %+v", res.Results[4])
	}
}

func TestBulkAutoApply(t *testing.T) {
	store := newFakeStore()
	svc, notifier := newTestService(store)

	res, err := svc.Bulk(context.Background(), BulkOptions{AutoApply: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Summary.Updated != 1 || res.Summary.ChangesDetected != 0 {
		t.Fatalf("unexpected summary %+v", res.Summary)
	}
	if store.subjects["fl-1"].CurrentTier != freelancer.TierPlatinum {
		t.Fatalf("expected PLATINUM applied, got %s", store.subjects["fl-1"].CurrentTier)
	}
	if len(notifier.notes) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.notes))
	}
}

func TestStatsCachedAndInvalidatedByApply(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 5 || stats.ByTier["BRONZE"] != 4 || stats.ByTier["PLATINUM"] != 0 || stats.ByTierGrade["SILVER-B"] != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if _, err := svc.Stats(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.distCalls != 1 {
		t.Fatalf("expected cached stats, got %d store calls", store.distCalls)
	}

	if _, err := svc.Apply(ctx, "fl-1", ApplyInput{Tier: "GOLD", Grade: "A"}, "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats, _ = svc.Stats(ctx)
	if store.distCalls != 2 || stats.ByTier["GOLD"] != 1 {
		t.Fatalf("expected fresh stats after apply, got %+v", stats)
	}
}
