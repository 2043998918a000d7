package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// FetchEventData captures one content API lookup.
type FetchEventData struct {
	Operation    string // element_by_hash, element_by_id, collection_by_hash
	Key          string
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// FetchEvent is a persisted FetchEventData with its ordering metadata.
type FetchEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	FetchEventData
}

// AnswerEventData records a learner's answer to a challenge.
type AnswerEventData struct {
	SessionID      string
	CollectionHash string
	ItemHash       string
	AnswerMode     string // "boolean" or "text"
	LearnerAnswer  string
	Correct        bool
	ResolvedURL    string // media chosen for the overlay, empty if none
}

// Playback actions recorded by AppendPlaybackEvent.
const (
	PlaybackCompleted = "completed"
	PlaybackFailed    = "failed"
)

// PlaybackEventData records a notable playback transition.
type PlaybackEventData struct {
	SessionID      string
	CollectionHash string
	ItemHash       string
	Action         string
	PositionMs     int64
	ErrorMessage   string
}

// CollectionProgress aggregates the recorded activity for one collection.
type CollectionProgress struct {
	CollectionHash   string
	Answered         int
	Correct          int
	VideosCompleted  int
	PlaybackFailures int
	LastActivity     time.Time
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendFetchEvent records a content API lookup.
	AppendFetchEvent(ctx context.Context, data FetchEventData) error

	// AppendAnswerEvent records a submitted challenge answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendPlaybackEvent records a completed or failed playback.
	AppendPlaybackEvent(ctx context.Context, data PlaybackEventData) error

	// QueryFetchEvents returns fetch events, newest first.
	QueryFetchEvents(ctx context.Context, opts QueryOpts) ([]FetchEvent, error)

	// Progress returns per-collection aggregates, most recent activity first.
	Progress(ctx context.Context) ([]CollectionProgress, error)
}

// PrefsRepo persists learner preferences across sessions.
type PrefsRepo interface {
	// Muted reports the stored mute preference; false when never set.
	Muted(ctx context.Context) (bool, error)

	// SetMuted stores the mute preference.
	SetMuted(ctx context.Context, muted bool) error
}

// PositionRepo remembers where the learner left each collection.
type PositionRepo interface {
	// Position returns the last saved item index, and false when none exists.
	Position(ctx context.Context, collectionHash string) (int, bool, error)

	// SavePosition stores the item index for the collection.
	SavePosition(ctx context.Context, collectionHash string, index int) error
}
