package reviews

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
)

type memStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*types.ReviewItem

	// createConflicts makes the next N creates fail as if another writer won.
	createConflicts int
	casAlwaysFails  bool
}

func newMemStore() *memStore {
	return &memStore{items: map[uuid.UUID]*types.ReviewItem{}}
}

func (s *memStore) GetByID(_ dbctx.Context, id uuid.UUID) (*types.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (s *memStore) GetByUserAndKey(_ dbctx.Context, userID uuid.UUID, key string) (*types.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.UserID == userID && it.SubjectKey == key {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) Create(_ dbctx.Context, item *types.ReviewItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createConflicts > 0 {
		s.createConflicts--
		winner := *item
		winner.ID = uuid.New()
		winner.Reason = "winner"
		s.items[winner.ID] = &winner
		return coreerrs.ErrConflict
	}
	for _, it := range s.items {
		if it.UserID == item.UserID && it.SubjectKey == item.SubjectKey {
			return coreerrs.ErrConflict
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *memStore) UpdateFields(_ dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil
	}
	if v, ok := updates["reason"].(string); ok {
		it.Reason = v
	}
	if v, ok := updates["priority"].(int); ok {
		it.Priority = v
	}
	if v, ok := updates["title"].(string); ok {
		it.Title = v
	}
	return nil
}

func (s *memStore) ListByUser(_ dbctx.Context, userID uuid.UUID, kind string, dueBy *time.Time, limit int) ([]*types.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.ReviewItem
	for _, it := range s.items {
		if it.UserID != userID {
			continue
		}
		if kind != "" && it.Kind != kind {
			continue
		}
		if dueBy != nil && it.NextReview.After(*dueBy) {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) CountDue(dbc dbctx.Context, userID uuid.UUID, now time.Time) (int64, error) {
	rows, _ := s.ListByUser(dbc, userID, "", &now, 0)
	return int64(len(rows)), nil
}

func (s *memStore) CompareAndSwapSchedule(_ dbctx.Context, id uuid.UUID, expected int, next types.ReviewSchedule) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.casAlwaysFails {
		return false, nil
	}
	it, ok := s.items[id]
	if !ok || it.ReviewCount != expected {
		return false, nil
	}
	it.IntervalDays = next.IntervalDays
	it.NextReview = next.NextReview
	it.ReviewCount = next.ReviewCount
	lr := next.LastReviewed
	it.LastReviewed = &lr
	return true, nil
}

func (s *memStore) DeleteByUserAndID(_ dbctx.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[id]; ok && it.UserID == userID {
		delete(s.items, id)
	}
	return nil
}

var epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newQueue(t *testing.T) (*Queue, *memStore, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	mock.Add(epoch.Sub(time.Unix(0, 0)))
	store := newMemStore()
	return New(Deps{Store: store, Clock: mock}), store, mock
}

func TestQueue_UpsertIsIdempotentOnKey(t *testing.T) {
	q, store, mock := newQueue(t)
	ctx := context.Background()
	user := uuid.New()

	first, err := q.Upsert(ctx, UpsertRequest{UserID: user, SubjectKey: "two-sum", Reason: "r1"})
	if err != nil {
		t.Fatalf("Upsert r1: %v", err)
	}
	if first.IntervalDays != 1 || !first.NextReview.Equal(epoch) {
		t.Fatalf("new item should be interval 1 due now, got interval=%d next=%s", first.IntervalDays, first.NextReview)
	}

	mock.Add(6 * time.Hour)
	second, err := q.Upsert(ctx, UpsertRequest{UserID: user, SubjectKey: "two-sum", Reason: "r2", Priority: 3})
	if err != nil {
		t.Fatalf("Upsert r2: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same item, got %s and %s", first.ID, second.ID)
	}
	if len(store.items) != 1 {
		t.Fatalf("expected exactly one item, got %d", len(store.items))
	}
	got := store.items[first.ID]
	if got.Reason != "r2" || got.Priority != 3 {
		t.Fatalf("expected reason=r2 priority=3, got %q %d", got.Reason, got.Priority)
	}
	if got.IntervalDays != first.IntervalDays || !got.NextReview.Equal(first.NextReview) {
		t.Fatalf("schedule changed on re-flag: interval=%d next=%s", got.IntervalDays, got.NextReview)
	}
}

func TestQueue_UpsertKeepsScheduleAfterCompletion(t *testing.T) {
	q, store, _ := newQueue(t)
	ctx := context.Background()
	user := uuid.New()

	it, _ := q.Upsert(ctx, UpsertRequest{UserID: user, SubjectKey: "lru-cache", Reason: "r1"})
	if _, err := q.Complete(ctx, user, it.ID, true); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := q.Upsert(ctx, UpsertRequest{UserID: user, SubjectKey: "lru-cache", Reason: "again"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if got := store.items[it.ID]; got.IntervalDays != 2 || got.ReviewCount != 1 {
		t.Fatalf("re-flag reset schedule: interval=%d count=%d", got.IntervalDays, got.ReviewCount)
	}
}

func TestQueue_UpsertLosingInsertRaceUpdatesWinner(t *testing.T) {
	q, store, _ := newQueue(t)
	store.createConflicts = 1
	user := uuid.New()

	it, err := q.Upsert(context.Background(), UpsertRequest{UserID: user, SubjectKey: "k", Reason: "mine"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(store.items) != 1 {
		t.Fatalf("expected one row, got %d", len(store.items))
	}
	if store.items[it.ID].Reason != "mine" {
		t.Fatalf("expected winner to carry our reason, got %q", store.items[it.ID].Reason)
	}
}

func TestQueue_UpsertValidates(t *testing.T) {
	q, _, _ := newQueue(t)
	_, err := q.Upsert(context.Background(), UpsertRequest{UserID: uuid.New(), SubjectKey: "  "})
	if !errors.Is(err, coreerrs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestQueue_DueOrdering(t *testing.T) {
	q, store, _ := newQueue(t)
	user := uuid.New()
	seed := func(key string, prio int, next time.Time) uuid.UUID {
		id := uuid.New()
		store.items[id] = &types.ReviewItem{ID: id, UserID: user, SubjectKey: key, Priority: prio, NextReview: next, IntervalDays: 1}
		return id
	}
	// Due now: priorities [5,1,5] with next_review [t-1m, t-2h, t-1h].
	late := seed("a", 5, epoch.Add(-time.Minute))
	low := seed("b", 1, epoch.Add(-2*time.Hour))
	early := seed("c", 5, epoch.Add(-time.Hour))
	seed("future", 9, epoch.Add(time.Hour))

	got, err := q.Due(context.Background(), user, 10, false)
	if err != nil {
		t.Fatalf("Due: %v", err)
	}
	want := []uuid.UUID{early, late, low}
	if len(got) != len(want) {
		t.Fatalf("expected %d due items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("position %d: expected %s got %s (%s)", i, want[i], got[i].ID, got[i].SubjectKey)
		}
	}

	all, err := q.Due(context.Background(), user, 10, true)
	if err != nil {
		t.Fatalf("Due include_future: %v", err)
	}
	if len(all) != 4 || all[0].SubjectKey != "future" {
		t.Fatalf("include_future should return all items by priority, got %d first=%q", len(all), all[0].SubjectKey)
	}

	limited, _ := q.Due(context.Background(), user, 2, true)
	if len(limited) != 2 {
		t.Fatalf("expected limit 2, got %d", len(limited))
	}

	n, err := q.Count(context.Background(), user)
	if err != nil || n != 3 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}
}

func TestQueue_DueProblemsSkipsGradedTopics(t *testing.T) {
	q, _, mock := newQueue(t)
	ctx := context.Background()
	user := uuid.New()

	if _, err := q.Grade(ctx, GradeRequest{UserID: user, Kind: types.ReviewKindLanguage, Topic: "closures", Score: 40}); err != nil {
		t.Fatalf("Grade: %v", err)
	}
	mock.Add(time.Minute)
	problem, err := q.Upsert(ctx, UpsertRequest{UserID: user, SubjectKey: "two-sum", Kind: types.ReviewKindProblem, Priority: 1})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := q.DueProblems(ctx, user, 1)
	if err != nil {
		t.Fatalf("DueProblems: %v", err)
	}
	if len(got) != 1 || got[0].ID != problem.ID {
		t.Fatalf("expected two-sum, got %+v", got)
	}

	all, err := q.Due(ctx, user, 1, false)
	if err != nil || len(all) != 1 || all[0].Kind != types.ReviewKindLanguage {
		t.Fatalf("Due should still rank the graded topic first: got=%+v err=%v", all, err)
	}
}

func TestQueue_CompleteAdvancesInterval(t *testing.T) {
	q, _, mock := newQueue(t)
	ctx := context.Background()
	user := uuid.New()
	it, _ := q.Upsert(ctx, UpsertRequest{UserID: user, SubjectKey: "two-sum"})

	want := []int{2, 4, 8, 16, 30, 30}
	for i, w := range want {
		got, err := q.Complete(ctx, user, it.ID, true)
		if err != nil {
			t.Fatalf("Complete step %d: %v", i, err)
		}
		if got.IntervalDays != w || got.ReviewCount != i+1 {
			t.Fatalf("step %d: expected interval=%d count=%d got %d %d", i, w, i+1, got.IntervalDays, got.ReviewCount)
		}
		now := mock.Now().UTC()
		if got.LastReviewed == nil || !got.LastReviewed.Equal(now) {
			t.Fatalf("step %d: last_reviewed not set to now", i)
		}
		if !got.NextReview.Equal(now.AddDate(0, 0, w)) {
			t.Fatalf("step %d: next_review %s", i, got.NextReview)
		}
	}

	got, err := q.Complete(ctx, user, it.ID, false)
	if err != nil {
		t.Fatalf("Complete failure: %v", err)
	}
	if got.IntervalDays != 1 {
		t.Fatalf("failure should reset to 1, got %d", got.IntervalDays)
	}
}

func TestQueue_CompleteNotFound(t *testing.T) {
	q, _, _ := newQueue(t)
	ctx := context.Background()
	owner := uuid.New()
	it, _ := q.Upsert(ctx, UpsertRequest{UserID: owner, SubjectKey: "x"})

	for name, tc := range map[string]struct{ user, id uuid.UUID }{
		"missing id":  {owner, uuid.New()},
		"other owner": {uuid.New(), it.ID},
	} {
		if _, err := q.Complete(ctx, tc.user, tc.id, true); !errors.Is(err, coreerrs.ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestQueue_CompleteConcurrentSerializes(t *testing.T) {
	q, store, _ := newQueue(t)
	ctx := context.Background()
	user := uuid.New()
	it, _ := q.Upsert(ctx, UpsertRequest{UserID: user, SubjectKey: "graph-valid-tree"})

	const n = 4
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := q.Complete(ctx, user, it.ID, true); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Complete: %v", err)
	}

	got := store.items[it.ID]
	if got.ReviewCount != n {
		t.Fatalf("expected review_count=%d got %d", n, got.ReviewCount)
	}
	if got.IntervalDays != 16 {
		t.Fatalf("expected four serialized advances (1->16), got %d", got.IntervalDays)
	}
}

func TestQueue_CompleteGivesUpAfterRepeatedConflicts(t *testing.T) {
	q, store, _ := newQueue(t)
	ctx := context.Background()
	user := uuid.New()
	it, _ := q.Upsert(ctx, UpsertRequest{UserID: user, SubjectKey: "x"})
	store.casAlwaysFails = true

	if _, err := q.Complete(ctx, user, it.ID, true); !errors.Is(err, coreerrs.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestQueue_RemoveIsIdempotent(t *testing.T) {
	q, store, _ := newQueue(t)
	ctx := context.Background()
	user := uuid.New()
	it, _ := q.Upsert(ctx, UpsertRequest{UserID: user, SubjectKey: "x"})

	for i := 0; i < 2; i++ {
		if err := q.Remove(ctx, user, it.ID); err != nil {
			t.Fatalf("Remove #%d: %v", i+1, err)
		}
	}
	if len(store.items) != 0 {
		t.Fatalf("expected empty store, got %d", len(store.items))
	}
}

func TestQueue_Grade(t *testing.T) {
	q, store, _ := newQueue(t)
	ctx := context.Background()
	user := uuid.New()

	it, err := q.Grade(ctx, GradeRequest{UserID: user, Kind: types.ReviewKindSystemDesign, Topic: "rate limiter", Score: 55})
	if err != nil || it == nil {
		t.Fatalf("Grade low score: it=%v err=%v", it, err)
	}
	if it.SubjectKey != "system_design:rate limiter" || it.Priority != 1 {
		t.Fatalf("unexpected item key=%q priority=%d", it.SubjectKey, it.Priority)
	}
	if it.Reason != "Low score (55) on system design exercise" {
		t.Fatalf("unexpected reason %q", it.Reason)
	}

	skipped, err := q.Grade(ctx, GradeRequest{UserID: user, Kind: types.ReviewKindLanguage, Topic: "go channels", Score: 70})
	if err != nil || skipped != nil {
		t.Fatalf("passing score should not queue: it=%v err=%v", skipped, err)
	}
	if len(store.items) != 1 {
		t.Fatalf("expected a single queued topic, got %d", len(store.items))
	}

	if _, err := q.Grade(ctx, GradeRequest{UserID: user, Kind: "poetry", Topic: "x", Score: 1}); !errors.Is(err, coreerrs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown kind, got %v", err)
	}
}
