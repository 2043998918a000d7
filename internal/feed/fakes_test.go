package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hejvi/hejvi/internal/content"
	"github.com/hejvi/hejvi/internal/media"
	"github.com/hejvi/hejvi/internal/store"
)

var errAutoplay = errors.New("autoplay rejected")

// fakeElement is a scripted MediaElement.
type fakeElement struct {
	id          int
	src         Source
	loaded      bool
	paused      bool
	muted       bool
	mutedAtLoad bool
	detached    bool
	pos         time.Duration
	dur         time.Duration
	plays       int
	native      bool
	playErr     error
	loadErr     error
	queued      []MediaEvent
}

func (e *fakeElement) Load(src Source) error {
	if e.loadErr != nil {
		return e.loadErr
	}
	e.src, e.loaded, e.paused = src, true, true
	e.mutedAtLoad = e.muted
	e.dur = src.Duration
	if e.dur == 0 {
		e.dur = 20 * time.Second
	}
	e.queued = append(e.queued, MediaEvent{Type: EventLoaded, Duration: e.dur})
	return nil
}

func (e *fakeElement) Play() error {
	e.plays++
	if e.playErr != nil {
		return e.playErr
	}
	e.paused = false
	return nil
}

func (e *fakeElement) Pause() {
	e.paused = true
}

func (e *fakeElement) Paused() bool {
	return e.paused
}

func (e *fakeElement) Seek(pos time.Duration) {
	e.pos = pos
}

func (e *fakeElement) Position() time.Duration {
	return e.pos
}

func (e *fakeElement) Duration() time.Duration {
	return e.dur
}

func (e *fakeElement) SetMuted(m bool) {
	e.muted = m
}

func (e *fakeElement) Muted() bool {
	return e.muted
}

func (e *fakeElement) SupportsNative(k media.Kind) bool {
	return k == media.Progressive || e.native
}

func (e *fakeElement) Detach() {
	e.detached, e.paused = true, true
}

func (e *fakeElement) Advance(dt time.Duration) []MediaEvent {
	out := e.queued
	e.queued = nil
	return out
}

func (e *fakeElement) playing() bool {
	return e.loaded && !e.paused && !e.detached
}

// fakeDecoder attaches instantly.
type fakeDecoder struct {
	destroyed bool
	err       error
}

func (d *fakeDecoder) Attach(_ context.Context, src string) (media.StreamInfo, error) {
	if d.err != nil {
		return media.StreamInfo{}, d.err
	}
	return media.StreamInfo{URL: src, Duration: 12 * time.Second, Segments: 3}, nil
}

func (d *fakeDecoder) Destroy() {
	d.destroyed = true
}

type scheduled struct {
	d   time.Duration
	msg tea.Msg
}

// fakeScheduler records scheduled messages; tests deliver them by hand.
type fakeScheduler struct {
	pending []scheduled
}

func (s *fakeScheduler) After(d time.Duration, msg tea.Msg) tea.Cmd {
	s.pending = append(s.pending, scheduled{d: d, msg: msg})
	return nil
}

// take removes and returns the pending messages matching keep.
func (s *fakeScheduler) take(keep func(tea.Msg) bool) []tea.Msg {
	var out []tea.Msg
	rest := s.pending[:0]
	for _, p := range s.pending {
		if keep(p.msg) {
			out = append(out, p.msg)
		} else {
			rest = append(rest, p)
		}
	}
	s.pending = rest
	return out
}

// recorder captures answer and playback events.
type recorder struct {
	answers   []store.AnswerEventData
	playbacks []store.PlaybackEventData
}

func (r *recorder) AppendAnswerEvent(_ context.Context, d store.AnswerEventData) error {
	r.answers = append(r.answers, d)
	return nil
}

func (r *recorder) AppendPlaybackEvent(_ context.Context, d store.PlaybackEventData) error {
	r.playbacks = append(r.playbacks, d)
	return nil
}

type memPositions struct{ saved map[string]int }

func (p *memPositions) Position(_ context.Context, hash string) (int, bool, error) {
	i, ok := p.saved[hash]
	return i, ok, nil
}

func (p *memPositions) SavePosition(_ context.Context, hash string, i int) error {
	if p.saved == nil {
		p.saved = make(map[string]int)
	}
	p.saved[hash] = i
	return nil
}

type memPrefs struct{ muted bool }

func (p *memPrefs) Muted(context.Context) (bool, error) {
	return p.muted, nil
}

func (p *memPrefs) SetMuted(_ context.Context, m bool) error {
	p.muted = m
	return nil
}

// harness wires a Feed to fakes.
type harness struct {
	t        *testing.T
	feed     *Feed
	sess     *Session
	sched    *fakeScheduler
	client   *content.MockClient
	elements []*fakeElement
	decoders []*fakeDecoder
	rec      *recorder
	now      time.Time
	ended    []PlaylistEndedMsg
	// playErr is given to every new element.
	playErr error
}

func newHarness(t *testing.T, items ...Item) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		sched:  &fakeScheduler{},
		client: content.NewMockClient(),
		rec:    &recorder{},
		now:    time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	norm, err := media.NewNormalizer("https://api.hejvi.se/api", "media.hejvi.se", "/api/media")
	if err != nil {
		t.Fatalf("normalizer: %v", err)
	}
	sess := NewSession(h.client, func() MediaElement {
		e := &fakeElement{id: len(h.elements), playErr: h.playErr}
		h.elements = append(h.elements, e)
		return e
	})
	sess.Scheduler = h.sched
	sess.Normalizer = norm
	sess.Events = h.rec
	sess.Now = func() time.Time { return h.now }
	sess.Decoders = media.NewDecoderLoaderFunc(func() media.Decoder {
		d := &fakeDecoder{}
		h.decoders = append(h.decoders, d)
		return d
	})
	h.sess = sess
	h.feed = New(sess, NewPlaylist(items))
	return h
}

// run executes cmd and every command it produces, feeding feed messages
// back into the feed.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	case PlaylistEndedMsg:
		h.ended = append(h.ended, msg)
	default:
		h.run(h.feed.Update(msg))
	}
}

// fire delivers every pending scheduled message of type T.
func fire[T tea.Msg](h *harness) int {
	h.t.Helper()
	msgs := h.sched.take(func(m tea.Msg) bool { _, ok := m.(T); return ok })
	for _, m := range msgs {
		h.run(h.feed.Update(m))
	}
	return len(msgs)
}

// scheduledCount reports how many messages of type T are pending.
func scheduledCount[T tea.Msg](h *harness) int {
	n := 0
	for _, p := range h.sched.pending {
		if _, ok := p.msg.(T); ok {
			n++
		}
	}
	return n
}

// settle runs scroll frames and visibility debounces until the scroller
// is at rest.
func (h *harness) settle() {
	h.t.Helper()
	for i := 0; i < 2000; i++ {
		n := fire[scrollFrameMsg](h) + fire[visibilityMsg](h)
		if n == 0 {
			return
		}
	}
	h.t.Fatal("scroller did not settle")
}

// element returns the live element of item i.
func (h *harness) element(i int) *fakeElement {
	h.t.Helper()
	e, ok := h.feed.items[i].elem.(*fakeElement)
	if !ok {
		return nil
	}
	return e
}

// overlayElement returns the overlay's element.
func (h *harness) overlayElement() *fakeElement {
	if h.feed.overlay == nil || h.feed.overlay.elem == nil {
		return nil
	}
	return h.feed.overlay.elem.(*fakeElement)
}

// end delivers a natural end for the live item.
func (h *harness) end(i int) {
	h.t.Helper()
	h.run(h.feed.Update(MediaEventMsg{Target: TargetMain, Index: i, Gen: h.feed.items[i].gen, Event: MediaEvent{Type: EventPlaybackEnded}}))
}

// endOverlay delivers a natural end for the overlay video.
func (h *harness) endOverlay() {
	h.t.Helper()
	if h.feed.overlay == nil {
		h.t.Fatal("no overlay open")
	}
	h.run(h.feed.Update(MediaEventMsg{Target: TargetOverlay, Index: h.feed.overlay.index, Gen: h.feed.overlay.gen, Event: MediaEvent{Type: EventPlaybackEnded}}))
}

// playing returns the indices of items whose element is playing.
func (h *harness) playing() []int {
	var out []int
	for i := range h.feed.items {
		if e := h.element(i); e != nil && e.playing() {
			out = append(out, i)
		}
	}
	return out
}

func video(n int) Item {
	return Item{
		ID:         int64(100 + n),
		HashID:     fmt.Sprintf("el-video%d", n),
		Kind:       KindVideo,
		MediaURL:   fmt.Sprintf("https://cdn.test/v/%d.mp4", n),
		Duration:   20 * time.Second,
		TimerOnEnd: true,
	}
}

func challenge(n int, correct string, success, failure BranchTarget) Item {
	mode := AnswerFreeText
	if _, ok := NormalizeBool(correct); ok {
		mode = AnswerBoolean
	}
	return Item{
		ID:            int64(200 + n),
		HashID:        fmt.Sprintf("el-challenge%d", n),
		Kind:          KindChallenge,
		Question:      "question?",
		AnswerMode:    mode,
		CorrectAnswer: correct,
		SuccessTarget: success,
		FailureTarget: failure,
		TimerOnEnd:    true,
	}
}
