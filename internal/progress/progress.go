// Package progress tracks practice completion. A local JSON cache gives the
// server a working copy that survives restarts; an optional Postgres store
// syncs completions across devices. The coordinator merges the two with a
// remote-wins policy and masks remote failures so the practice flow never
// blocks on the database.
package progress

import "time"

// State is the lifecycle of one practice for one user. There is no
// persisted in-progress state: abandoning a practice leaves no trace.
type State string

const (
	// StateUnknown means the practice ID is not in the catalog.
	StateUnknown State = "unknown"

	// StateNotStarted means no completion has been recorded.
	StateNotStarted State = "not_started"

	// StateCompleted means a completion record exists locally or remotely.
	StateCompleted State = "completed"
)

// CompletionRecord is one completed practice. Score and Passed are only set
// for assessment practices.
type CompletionRecord struct {
	PracticeID  string    `json:"practiceId"`
	CompletedAt time.Time `json:"completedAt"`
	Score       *int      `json:"score,omitempty"`
	Passed      *bool     `json:"passed,omitempty"`
}

// EventKind discriminates coordinator notifications.
type EventKind string

const (
	EventLaunched  EventKind = "launched"
	EventCompleted EventKind = "completed"
)

// Event is delivered to subscribed observers when a practice is launched or
// completed.
type Event struct {
	Kind       EventKind
	PracticeID string
}
