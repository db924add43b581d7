package progress

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/truthempowered/tercoach/internal/catalog"
)

// remoteTimeout bounds every call to the remote store so a slow database
// never stalls the practice flow.
const remoteTimeout = 3 * time.Second

// RemoteStore syncs completions across devices. Implemented by the postgres
// subpackage; nil when no DSN is configured.
type RemoteStore interface {
	// FetchCompletions returns practiceID -> completedAt for the user.
	FetchCompletions(ctx context.Context, userID string) (map[string]time.Time, error)

	// UpsertCompletion records a completion, replacing the timestamp when
	// the row already exists.
	UpsertCompletion(ctx context.Context, userID, practiceID string, completedAt time.Time) error
}

// PracticeStatus pairs a catalog definition with the user's progress on it.
type PracticeStatus struct {
	Definition  catalog.Definition `json:"definition"`
	State       State              `json:"state"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`
	Score       *int               `json:"score,omitempty"`
	Passed      *bool              `json:"passed,omitempty"`
}

// Coordinator merges the catalog, the local cache, and the optional remote
// store into a single progress view, and records launches and completions.
// It is safe for concurrent use.
type Coordinator struct {
	catalog *catalog.Catalog
	cache   *FileCache
	remote  RemoteStore // may be nil
	now     func() time.Time

	mu        sync.Mutex
	active    string
	observers []func(Event)
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator creates a coordinator. remote may be nil, in which case
// progress lives only in the local cache.
func NewCoordinator(cat *catalog.Catalog, cache *FileCache, remote RemoteStore, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		catalog: cat,
		cache:   cache,
		remote:  remote,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers an observer called synchronously on every launch and
// completion event. Observers must not call back into the coordinator.
func (c *Coordinator) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *Coordinator) notify(ev Event) {
	c.mu.Lock()
	obs := make([]func(Event), len(c.observers))
	copy(obs, c.observers)
	c.mu.Unlock()
	for _, fn := range obs {
		fn(ev)
	}
}

// LoadSummary returns the progress of every practice unlocked at tier,
// in catalog order. Remote completions win over cached ones when the remote
// store is reachable; a remote failure is logged and masked so the summary
// degrades to the local view instead of erroring.
func (c *Coordinator) LoadSummary(ctx context.Context, userID string, tier catalog.Tier) []PracticeStatus {
	records := c.cache.Load()

	if c.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, remoteTimeout)
		remote, err := c.remote.FetchCompletions(rctx, userID)
		cancel()
		if err != nil {
			slog.Warn("remote progress fetch failed, serving cached progress",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
		} else {
			for id, at := range remote {
				rec, ok := records[id]
				if !ok {
					records[id] = CompletionRecord{PracticeID: id, CompletedAt: at}
					continue
				}
				rec.CompletedAt = at
				records[id] = rec
			}
		}
	}

	defs := c.catalog.ByTier(tier)
	out := make([]PracticeStatus, 0, len(defs))
	for _, d := range defs {
		status := PracticeStatus{Definition: d, State: StateNotStarted}
		if rec, ok := records[d.ID]; ok {
			at := rec.CompletedAt
			status.State = StateCompleted
			status.CompletedAt = &at
			status.Score = rec.Score
			status.Passed = rec.Passed
		}
		out = append(out, status)
	}
	return out
}

// Launch marks the practice as the active target and notifies observers.
// The practice must exist in the catalog.
func (c *Coordinator) Launch(practiceID string) error {
	if _, ok := c.catalog.Get(practiceID); !ok {
		return fmt.Errorf("progress: unknown practice %q", practiceID)
	}
	c.mu.Lock()
	c.active = practiceID
	c.mu.Unlock()
	c.notify(Event{Kind: EventLaunched, PracticeID: practiceID})
	return nil
}

// Active returns the most recently launched practice ID, or "".
func (c *Coordinator) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// CompleteOption attaches extra data to a completion.
type CompleteOption func(*CompletionRecord)

// WithAssessmentResult records the score and pass/fail outcome of an
// assessment completion.
func WithAssessmentResult(score int, passed bool) CompleteOption {
	return func(rec *CompletionRecord) {
		rec.Score = &score
		rec.Passed = &passed
	}
}

// Complete records a completion. The local cache write is synchronous; the
// remote upsert is fire-and-forget with no retries, so a down database
// costs one log line and nothing else. Completing an already-completed
// practice is allowed and replaces the completion timestamp.
func (c *Coordinator) Complete(ctx context.Context, userID, practiceID string, opts ...CompleteOption) error {
	if _, ok := c.catalog.Get(practiceID); !ok {
		return fmt.Errorf("progress: unknown practice %q", practiceID)
	}

	rec := CompletionRecord{
		PracticeID:  practiceID,
		CompletedAt: c.now().UTC(),
	}
	for _, opt := range opts {
		opt(&rec)
	}

	c.mu.Lock()
	records := c.cache.Load()
	records[practiceID] = rec
	c.cache.Save(records)
	c.mu.Unlock()

	if c.remote != nil {
		// Detach from the request context so an early client disconnect
		// does not cancel the sync.
		go func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
			defer cancel()
			if err := c.remote.UpsertCompletion(ctx, userID, practiceID, rec.CompletedAt); err != nil {
				slog.Warn("remote progress sync failed, completion kept locally",
					slog.String("user_id", userID),
					slog.String("practice_id", practiceID),
					slog.String("error", err.Error()))
			}
		}(context.WithoutCancel(ctx))
	}

	c.notify(Event{Kind: EventCompleted, PracticeID: practiceID})
	return nil
}
