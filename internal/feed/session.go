package feed

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/hejvi/hejvi/internal/content"
	"github.com/hejvi/hejvi/internal/logging"
	"github.com/hejvi/hejvi/internal/media"
	"github.com/hejvi/hejvi/internal/store"
)

// PrefsStore persists the mute preference. store.PrefsRepo satisfies it.
type PrefsStore interface {
	Muted(ctx context.Context) (bool, error)
	SetMuted(ctx context.Context, muted bool) error
}

// EventRecorder records learner activity. store.EventRepo satisfies it.
type EventRecorder interface {
	AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error
	AppendPlaybackEvent(ctx context.Context, data store.PlaybackEventData) error
}

// PositionStore remembers the last active index per collection.
// store.PositionRepo satisfies it.
type PositionStore interface {
	Position(ctx context.Context, collectionHash string) (int, bool, error)
	SavePosition(ctx context.Context, collectionHash string, index int) error
}

// Scheduler delivers msg after d.
type Scheduler interface {
	After(d time.Duration, msg tea.Msg) tea.Cmd
}

// TickScheduler schedules with tea.Tick.
type TickScheduler struct{}

func (TickScheduler) After(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// GenericPools are the fallback reaction elements used when no authored
// response video can be found.
type GenericPools struct {
	Success []int64
	Failure []int64
}

// For returns the pool for b.
func (p GenericPools) For(b Branch) []int64 {
	if b == BranchSuccess {
		return p.Success
	}
	return p.Failure
}

// Session is the state shared by every item of a viewing session: the
// content client, the mute flag and the response video cache. Tests build
// independent sessions instead of relying on globals.
type Session struct {
	ID string

	Client     content.Client
	Cache      *Cache
	Prefs      PrefsStore    // may be nil
	Events     EventRecorder // may be nil
	Positions  PositionStore // may be nil
	NewElement func() MediaElement
	Decoders   *media.DecoderLoader
	Normalizer media.Normalizer
	Pools      GenericPools
	Timing     Timing
	Scheduler  Scheduler
	Now        func() time.Time
	Logger     *logging.Logger

	muted bool
}

// NewSession returns a session with default timing, a fresh cache and a
// tea.Tick scheduler.
func NewSession(client content.Client, newElement func() MediaElement) *Session {
	return &Session{
		ID:         uuid.New().String(),
		Client:     client,
		Cache:      NewCache(),
		NewElement: newElement,
		Decoders:   media.NewDecoderLoader(nil),
		Timing:     DefaultTiming(),
		Scheduler:  TickScheduler{},
		Now:        time.Now,
		Logger:     logging.Discard(),
	}
}

// LoadPrefs reads the persisted mute flag. Call it before the first item
// becomes active.
func (s *Session) LoadPrefs(ctx context.Context) error {
	if s.Prefs == nil {
		return nil
	}
	muted, err := s.Prefs.Muted(ctx)
	if err != nil {
		return err
	}
	s.muted = muted
	return nil
}

// Muted returns the session mute flag.
func (s *Session) Muted() bool {
	return s.muted
}

// SetMuted updates the mute flag and returns a command persisting it.
func (s *Session) SetMuted(muted bool) tea.Cmd {
	s.muted = muted
	if s.Prefs == nil {
		return nil
	}
	prefs := s.Prefs
	return func() tea.Msg {
		return persistedMsg{what: "mute", err: prefs.SetMuted(context.Background(), muted)}
	}
}

// Resolver returns a resolver bound to this session's client and cache.
func (s *Session) Resolver() *Resolver {
	return &Resolver{
		Client:     s.Client,
		Cache:      s.Cache,
		Normalizer: s.Normalizer,
		Pools:      s.Pools,
		Logger:     s.Logger,
	}
}

// StartIndex returns the saved position for collectionHash, or 0.
func (s *Session) StartIndex(ctx context.Context, collectionHash string) int {
	if s.Positions == nil || collectionHash == "" {
		return 0
	}
	idx, ok, err := s.Positions.Position(ctx, collectionHash)
	if err != nil {
		s.Logger.Warn("read resume position", "collection", collectionHash, "err", err)
		return 0
	}
	if !ok {
		return 0
	}
	return idx
}
