package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	dbfs "github.com/garnizeh/jobboard/db"
	"github.com/garnizeh/jobboard/internal/db"
	"github.com/garnizeh/jobboard/internal/events"
	"github.com/garnizeh/jobboard/internal/jobs"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupQueue(t *testing.T) *jobs.Repository {
	t.Helper()
	ctx := context.Background()
	d, err := db.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := db.Migrate(ctx, d, dbfs.Migrations, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return jobs.NewRepository(d)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noBackoff(int) time.Duration { return 0 }

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting: %s", msg)
}

func TestEnqueueAndProcess(t *testing.T) {
	ctx := context.Background()
	repo := setupQueue(t)

	handled := make(chan struct{}, 1)
	handlers := map[string]jobs.Handler{
		"test": func(ctx context.Context, j *jobs.Job) error {
			handled <- struct{}{}
			return nil
		},
	}
	pool := jobs.NewWorkerPool(repo, handlers, quietLogger(), 1)
	pool.Start(ctx)
	defer pool.Stop()

	id, err := pool.Enqueue(ctx, "test", map[string]string{"foo": "bar"}, 10, 3)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case <-handled:
	case <-time.After(3 * time.Second):
		t.Fatalf("handler was not called")
	}

	eventually(t, func() bool {
		j, err := repo.Get(ctx, id)
		return err == nil && j != nil && j.Status == jobs.StatusDone
	}, "job marked done")
}

func TestFetchNext_PriorityAndClaim(t *testing.T) {
	ctx := context.Background()
	repo := setupQueue(t)

	low, err := repo.Enqueue(ctx, &jobs.Job{Type: "a", Payload: []byte(`{}`), Priority: 50})
	if err != nil {
		t.Fatalf("enqueue low: %v", err)
	}
	high, err := repo.Enqueue(ctx, &jobs.Job{Type: "b", Payload: []byte(`{}`), Priority: 1})
	if err != nil {
		t.Fatalf("enqueue high: %v", err)
	}

	j, err := repo.FetchNext(ctx)
	if err != nil || j == nil {
		t.Fatalf("fetch: %v %v", j, err)
	}
	if j.ID != high || j.Status != jobs.StatusRunning {
		t.Fatalf("expected high priority job %d running, got %d %s", high, j.ID, j.Status)
	}

	j, err = repo.FetchNext(ctx)
	if err != nil || j == nil || j.ID != low {
		t.Fatalf("expected low priority job next, got %v %v", j, err)
	}

	j, err = repo.FetchNext(ctx)
	if err != nil || j != nil {
		t.Fatalf("expected empty queue, got %v %v", j, err)
	}

	// both claimed jobs are picked up again after a restart
	n, err := repo.RequeueStale(ctx)
	if err != nil || n != 2 {
		t.Fatalf("requeue stale: %d %v", n, err)
	}
}

func TestFetchNext_RespectsSchedule(t *testing.T) {
	ctx := context.Background()
	repo := setupQueue(t)

	if _, err := repo.Enqueue(ctx, &jobs.Job{Type: "later", ScheduledAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	j, err := repo.FetchNext(ctx)
	if err != nil || j != nil {
		t.Fatalf("future job must not be fetched, got %v %v", j, err)
	}
}

func TestRetryThenSucceed(t *testing.T) {
	ctx := context.Background()
	repo := setupQueue(t)

	var calls atomic.Int32
	handlers := map[string]jobs.Handler{
		"flaky": func(ctx context.Context, j *jobs.Job) error {
			if calls.Add(1) < 3 {
				return errors.New("temporary")
			}
			return nil
		},
	}
	pool := jobs.NewWorkerPool(repo, handlers, quietLogger(), 1)
	pool.SetBackoff(noBackoff)
	pool.Start(ctx)
	defer pool.Stop()

	id, err := pool.Enqueue(ctx, "flaky", nil, 1, 5)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	eventually(t, func() bool {
		j, err := repo.Get(ctx, id)
		return err == nil && j != nil && j.Status == jobs.StatusDone
	}, "flaky job done")

	j, _ := repo.Get(ctx, id)
	if j.Attempts != 2 || j.LastError != "temporary" {
		t.Fatalf("unexpected attempts %d / last error %q", j.Attempts, j.LastError)
	}
}

func TestDeadLetterAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	repo := setupQueue(t)

	handlers := map[string]jobs.Handler{
		"broken": func(ctx context.Context, j *jobs.Job) error { return errors.New("always") },
	}
	pool := jobs.NewWorkerPool(repo, handlers, quietLogger(), 2)
	pool.SetBackoff(noBackoff)
	pool.Start(ctx)
	defer pool.Stop()

	id, err := pool.Enqueue(ctx, "broken", nil, 1, 2)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := pool.Enqueue(ctx, "unknown", nil, 1, 2); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	eventually(t, func() bool {
		n, err := repo.DeadLetterCount(ctx, "broken")
		return err == nil && n == 1
	}, "broken job dead-lettered")
	eventually(t, func() bool {
		n, err := repo.DeadLetterCount(ctx, "unknown")
		return err == nil && n == 1
	}, "unhandled job dead-lettered")

	if j, err := repo.Get(ctx, id); err != nil || j != nil {
		t.Fatalf("dead-lettered job should leave the queue, got %v %v", j, err)
	}
}

func TestNotifierPublishesThroughPool(t *testing.T) {
	ctx := context.Background()
	repo := setupQueue(t)

	rec := &events.Recorder{}
	handlers := map[string]jobs.Handler{jobs.TypePublishEvent: jobs.PublishHandler(rec)}
	pool := jobs.NewWorkerPool(repo, handlers, quietLogger(), 1)
	pool.Start(ctx)
	defer pool.Stop()

	e := events.New(events.ApplicationSubmitted)
	e.ApplicationID = 7
	e.JobID = 3
	e.Status = "Pending"
	if err := jobs.NewNotifier(pool).Notify(ctx, e); err != nil {
		t.Fatalf("notify: %v", err)
	}

	eventually(t, func() bool { return len(rec.Events()) == 1 }, "event published")
	got := rec.Events()[0]
	if got.ID != e.ID || got.Type != events.ApplicationSubmitted || got.ApplicationID != 7 || got.JobID != 3 {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestPublishHandler_BadPayload(t *testing.T) {
	h := jobs.PublishHandler(&events.Recorder{})
	if err := h(context.Background(), &jobs.Job{Payload: []byte(`not json`)}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestBackoffDuration(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{20, 5 * time.Minute},
	}
	for _, tt := range tests {
		if got := jobs.BackoffDuration(tt.attempt); got != tt.want {
			t.Errorf("attempt %d: want %v got %v", tt.attempt, tt.want, got)
		}
	}
}
