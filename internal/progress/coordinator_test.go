package progress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/truthempowered/tercoach/internal/catalog"
)

// remoteMock implements RemoteStore. Upsert calls are reported on a channel
// so tests can wait for the fire-and-forget sync goroutine.
type remoteMock struct {
	completions map[string]time.Time
	fetchErr    error
	upsertErr   error
	upserts     chan upsertCall
}

type upsertCall struct {
	userID     string
	practiceID string
	at         time.Time
}

func newRemoteMock() *remoteMock {
	return &remoteMock{
		completions: map[string]time.Time{},
		upserts:     make(chan upsertCall, 16),
	}
}

func (m *remoteMock) FetchCompletions(_ context.Context, _ string) (map[string]time.Time, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make(map[string]time.Time, len(m.completions))
	for k, v := range m.completions {
		out[k] = v
	}
	return out, nil
}

func (m *remoteMock) UpsertCompletion(_ context.Context, userID, practiceID string, at time.Time) error {
	m.upserts <- upsertCall{userID: userID, practiceID: practiceID, at: at}
	return m.upsertErr
}

func waitForUpsert(t *testing.T, m *remoteMock) upsertCall {
	t.Helper()
	select {
	case call := <-m.upserts:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for remote upsert")
		return upsertCall{}
	}
}

func newTestCoordinator(t *testing.T, remote RemoteStore, opts ...CoordinatorOption) *Coordinator {
	t.Helper()
	cache := NewFileCache(filepath.Join(t.TempDir(), "progress.json"))
	return NewCoordinator(catalog.New(), cache, remote, opts...)
}

func statusFor(summary []PracticeStatus, id string) (PracticeStatus, bool) {
	for _, s := range summary {
		if s.Definition.ID == id {
			return s, true
		}
	}
	return PracticeStatus{}, false
}

func TestLoadSummary_LocalOnly(t *testing.T) {
	c := newTestCoordinator(t, nil)
	ctx := context.Background()

	if err := c.Complete(ctx, "user-1", "pause"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	summary := c.LoadSummary(ctx, "user-1", catalog.TierBeginner)
	if len(summary) == 0 {
		t.Fatal("empty summary")
	}

	pause, ok := statusFor(summary, "pause")
	if !ok {
		t.Fatal("pause missing from beginner summary")
	}
	if pause.State != StateCompleted || pause.CompletedAt == nil {
		t.Errorf("pause status = %+v, want completed", pause)
	}

	baggage, _ := statusFor(summary, "baggage-claim")
	if baggage.State != StateNotStarted {
		t.Errorf("baggage-claim state = %q, want not_started", baggage.State)
	}
}

func TestLoadSummary_RemoteWins(t *testing.T) {
	remote := newRemoteMock()
	remoteAt := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	remote.completions["pause"] = remoteAt

	localAt := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	c := newTestCoordinator(t, remote, WithClock(func() time.Time { return localAt }))

	ctx := context.Background()
	if err := c.Complete(ctx, "user-1", "pause"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	waitForUpsert(t, remote)

	pause, _ := statusFor(c.LoadSummary(ctx, "user-1", catalog.TierBeginner), "pause")
	if pause.CompletedAt == nil || !pause.CompletedAt.Equal(remoteAt) {
		t.Errorf("completedAt = %v, want remote %v", pause.CompletedAt, remoteAt)
	}
}

func TestLoadSummary_RemoteFailureMasked(t *testing.T) {
	remote := newRemoteMock()
	remote.fetchErr = errors.New("connection refused")

	c := newTestCoordinator(t, remote)
	ctx := context.Background()
	if err := c.Complete(ctx, "user-1", "pause"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	waitForUpsert(t, remote)

	pause, _ := statusFor(c.LoadSummary(ctx, "user-1", catalog.TierBeginner), "pause")
	if pause.State != StateCompleted {
		t.Errorf("state = %q, want completed from local cache", pause.State)
	}
}

func TestLoadSummary_FiltersByTier(t *testing.T) {
	c := newTestCoordinator(t, nil)
	summary := c.LoadSummary(context.Background(), "user-1", catalog.TierBeginner)
	if _, ok := statusFor(summary, "bomb-squad"); ok {
		t.Error("advanced practice visible in beginner summary")
	}
}

func TestComplete_IdempotentReplacesTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	c := newTestCoordinator(t, nil, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if err := c.Complete(ctx, "user-1", "pause"); err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	now = now.Add(time.Hour)
	if err := c.Complete(ctx, "user-1", "pause"); err != nil {
		t.Fatalf("second Complete: %v", err)
	}

	pause, _ := statusFor(c.LoadSummary(ctx, "user-1", catalog.TierBeginner), "pause")
	if pause.CompletedAt == nil || !pause.CompletedAt.Equal(now) {
		t.Errorf("completedAt = %v, want replayed %v", pause.CompletedAt, now)
	}
}

func TestComplete_UnknownPractice(t *testing.T) {
	c := newTestCoordinator(t, nil)
	if err := c.Complete(context.Background(), "user-1", "no-such-game"); err == nil {
		t.Fatal("expected error for unknown practice")
	}
}

func TestComplete_RemoteFailureKeepsLocalRecord(t *testing.T) {
	remote := newRemoteMock()
	remote.upsertErr = errors.New("database is down")

	c := newTestCoordinator(t, remote)
	ctx := context.Background()
	if err := c.Complete(ctx, "user-1", "pause"); err != nil {
		t.Fatalf("Complete should mask remote failure, got: %v", err)
	}
	waitForUpsert(t, remote)

	pause, _ := statusFor(c.LoadSummary(ctx, "user-1", catalog.TierBeginner), "pause")
	if pause.State != StateCompleted {
		t.Errorf("state = %q, want completed despite remote failure", pause.State)
	}
}

func TestComplete_AssessmentResult(t *testing.T) {
	c := newTestCoordinator(t, nil)
	ctx := context.Background()

	err := c.Complete(ctx, "user-1", "section-assessment", WithAssessmentResult(80, true))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	status, _ := statusFor(c.LoadSummary(ctx, "user-1", catalog.TierBeginner), "section-assessment")
	if status.Score == nil || *status.Score != 80 {
		t.Errorf("score = %v, want 80", status.Score)
	}
	if status.Passed == nil || !*status.Passed {
		t.Errorf("passed = %v, want true", status.Passed)
	}
}

func TestLaunchAndComplete_NotifyObservers(t *testing.T) {
	c := newTestCoordinator(t, nil)

	var events []Event
	c.Subscribe(func(ev Event) { events = append(events, ev) })

	if err := c.Launch("pause"); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if c.Active() != "pause" {
		t.Errorf("active = %q, want pause", c.Active())
	}
	if err := c.Complete(context.Background(), "user-1", "pause"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Kind != EventLaunched || events[1].Kind != EventCompleted {
		t.Errorf("unexpected event order: %+v", events)
	}

	if err := c.Launch("no-such-game"); err == nil {
		t.Error("expected error launching unknown practice")
	}
}
