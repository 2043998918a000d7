package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/tidwall/gjson"

	"github.com/hejvi/hejvi/internal/content"
	"github.com/hejvi/hejvi/internal/media"
)

// challengeType is the numeric element type the API uses for challenges.
const challengeType = 3

// ErrEmptyPlaylist is returned when a source yields no playable items.
var ErrEmptyPlaylist = errors.New("playlist is empty")

// field returns the first of paths present in r.
func field(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

// ParseItem converts one raw API element into an Item. pos is the element's
// position in its source and only seeds the positional key.
func ParseItem(raw []byte, pos int, norm media.Normalizer) (Item, error) {
	if !gjson.ValidBytes(raw) {
		return Item{}, fmt.Errorf("element %d: invalid JSON", pos)
	}
	r := gjson.ParseBytes(raw)
	if !r.IsObject() {
		return Item{}, fmt.Errorf("element %d: not an object", pos)
	}
	// Some collections wrap each entry as {"element": {...}}.
	if inner := r.Get("element"); inner.IsObject() && !r.Get("url_element").Exists() {
		r = inner
	}

	it := Item{
		ID:           field(r, "id", "element_id").Int(),
		HashID:       field(r, "hash_id", "hashId", "hash").String(),
		Title:        field(r, "title", "name").String(),
		MediaURL:     norm.Normalize(field(r, "url_element", "url", "video_url").String()),
		ThumbnailURL: norm.Normalize(field(r, "url_thumbnail", "thumbnail").String()),
		Duration:     time.Duration(field(r, "duration", "duration_seconds").Float() * float64(time.Second)),
		TimerOnEnd:   true,
	}
	if v := field(r, "timer_on_end", "timerOnEnd"); v.Exists() {
		it.TimerOnEnd = v.Bool()
	}
	it.Key = itemKey(it, pos)

	if field(r, "type", "element_type", "type_id").Int() != challengeType {
		it.Kind = KindVideo
		return it, nil
	}

	it.Kind = KindChallenge
	it.Question = field(r, "question", "challenge.question", "text").String()
	it.CorrectAnswer = field(r, "correct_answer", "challenge.correct_answer", "answer").String()
	it.AnswerMode = answerMode(field(r, "answer_type", "challenge.answer_type").String(), it.CorrectAnswer)
	it.SuccessTarget = branchTarget(r, "success")
	it.FailureTarget = branchTarget(r, "failure")
	it.SuccessElementID = field(r, "success_response_id", "success_id", "challenge.success_response_id").Int()
	it.FailureElementID = field(r, "failure_response_id", "failure_id", "challenge.failure_response_id").Int()
	return it, nil
}

// answerMode decides the mode from the declared answer type, falling back
// to whether the correct answer reads as a boolean.
func answerMode(declared, correct string) AnswerMode {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case "boolean", "bool", "yes_no", "yesno":
		return AnswerBoolean
	case "text", "free_text", "freetext":
		return AnswerFreeText
	}
	if _, ok := NormalizeBool(correct); ok {
		return AnswerBoolean
	}
	return AnswerFreeText
}

// branchTarget collapses the optional target fields of one branch into a
// BranchTarget. An explicit element id wins over a response hash.
func branchTarget(r gjson.Result, branch string) BranchTarget {
	if id := field(r, branch+"_element_id", "challenge."+branch+"_element_id").Int(); id != 0 {
		return ElementTarget(id)
	}
	hash := strings.TrimSpace(field(r,
		branch+"_response_hash", branch+"_hash", "challenge."+branch+"_response_hash").String())
	if hash != "" {
		return HashTarget(hash)
	}
	return BranchTarget{}
}

// Loader builds playlists from the content API.
type Loader struct {
	Client     content.Client
	Normalizer media.Normalizer
}

// Collection fetches a collection and builds its playlist. Elements that
// fail to parse are skipped.
func (l Loader) Collection(ctx context.Context, hash string) (*Playlist, error) {
	c, err := l.Client.CollectionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", hash, err)
	}
	var items []Item
	for i, raw := range c.Elements {
		it, err := ParseItem(raw, i, l.Normalizer)
		if err != nil {
			continue
		}
		items = append(items, it)
	}
	pl := NewPlaylist(items)
	if pl.Len() == 0 {
		return nil, fmt.Errorf("load collection %s: %w", hash, ErrEmptyPlaylist)
	}
	pl.Title = c.Title
	pl.CollectionHash = hash
	return pl, nil
}

// Element fetches a single element and wraps it in a one-item playlist.
func (l Loader) Element(ctx context.Context, hash string) (*Playlist, error) {
	e, err := l.Client.ElementByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("load element %s: %w", hash, err)
	}
	it, err := ParseItem(e.Raw, 0, l.Normalizer)
	if err != nil {
		return nil, fmt.Errorf("load element %s: %w", hash, err)
	}
	if it.HashID == "" {
		it.HashID = hash
		it.Key = hash
	}
	pl := NewPlaylist([]Item{it})
	pl.Title = it.Title
	return pl, nil
}

// LoadRequest says what to open.
type LoadRequest struct {
	CollectionHash string
	ElementHash    string
}

// LoadCmd fetches the requested playlist off the update loop.
func LoadCmd(l Loader, req LoadRequest) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			pl  *Playlist
			err error
		)
		switch {
		case req.ElementHash != "":
			pl, err = l.Element(ctx, req.ElementHash)
		case req.CollectionHash != "":
			pl, err = l.Collection(ctx, req.CollectionHash)
		default:
			err = errors.New("nothing to load")
		}
		return PlaylistLoadedMsg{Playlist: pl, Request: req, Err: err}
	}
}
