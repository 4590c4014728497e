package janitor_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/ErlanBelekov/calendar-api/internal/janitor"
	"github.com/ErlanBelekov/calendar-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeStateRepo struct {
	deleteExpired func(ctx context.Context, cutoff time.Time) (int, error)
}

func (r *fakeStateRepo) Create(context.Context, *domain.OAuthState) error { return nil }

func (r *fakeStateRepo) Consume(context.Context, string) (*domain.OAuthState, error) {
	return nil, domain.ErrOAuthStateInvalid
}

func (r *fakeStateRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	return r.deleteExpired(ctx, cutoff)
}

func TestNew_InvalidSchedule(t *testing.T) {
	if _, err := janitor.New(&fakeStateRepo{}, "every now and then", discard); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestRunOnce_PurgesWithCurrentCutoff(t *testing.T) {
	var cutoff time.Time
	repo := &fakeStateRepo{deleteExpired: func(_ context.Context, c time.Time) (int, error) {
		cutoff = c
		return 3, nil
	}}
	j, err := janitor.New(repo, "@every 5m", discard)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	purgedBefore := testutil.ToFloat64(metrics.JanitorPurgedTotal)
	okBefore := testutil.ToFloat64(metrics.JanitorRunsTotal.WithLabelValues("ok"))

	before := time.Now()
	n, err := j.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("purged = %d, want 3", n)
	}
	if cutoff.Before(before) || cutoff.After(time.Now()) {
		t.Errorf("cutoff %v is not the current time", cutoff)
	}
	if got := testutil.ToFloat64(metrics.JanitorPurgedTotal) - purgedBefore; got != 3 {
		t.Errorf("purged counter delta = %v, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.JanitorRunsTotal.WithLabelValues("ok")) - okBefore; got != 1 {
		t.Errorf("ok runs delta = %v, want 1", got)
	}
}

func TestRunOnce_RepoError(t *testing.T) {
	repoErr := errors.New("db down")
	repo := &fakeStateRepo{deleteExpired: func(context.Context, time.Time) (int, error) {
		return 0, repoErr
	}}
	j, err := janitor.New(repo, "@every 5m", discard)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	errorsBefore := testutil.ToFloat64(metrics.JanitorRunsTotal.WithLabelValues("error"))

	if _, err := j.RunOnce(context.Background()); !errors.Is(err, repoErr) {
		t.Errorf("err = %v, want repoErr", err)
	}
	if got := testutil.ToFloat64(metrics.JanitorRunsTotal.WithLabelValues("error")) - errorsBefore; got != 1 {
		t.Errorf("error runs delta = %v, want 1", got)
	}
}

func TestStart_ReturnsOnCancel(t *testing.T) {
	repo := &fakeStateRepo{deleteExpired: func(context.Context, time.Time) (int, error) { return 0, nil }}
	j, err := janitor.New(repo, "@every 1h", discard)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
