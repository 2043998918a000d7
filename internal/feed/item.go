package feed

import (
	"fmt"
	"strconv"
	"time"
)

// Kind tags a playlist item. It is decided once when the playlist is built.
type Kind int

const (
	KindVideo Kind = iota
	KindChallenge
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindChallenge:
		return "challenge"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// AnswerMode selects the input control and comparison rule of a challenge.
type AnswerMode int

const (
	AnswerBoolean AnswerMode = iota
	AnswerFreeText
)

func (m AnswerMode) String() string {
	switch m {
	case AnswerBoolean:
		return "boolean"
	case AnswerFreeText:
		return "text"
	default:
		return fmt.Sprintf("AnswerMode(%d)", int(m))
	}
}

// TargetKind discriminates BranchTarget.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetElement
	TargetResponseHash
)

// BranchTarget names the reaction media for one challenge outcome. Exactly
// one of ElementID and ResponseHash is meaningful, selected by Kind.
type BranchTarget struct {
	Kind         TargetKind
	ElementID    int64
	ResponseHash string
}

// ElementTarget returns a target referencing an element by numeric id.
func ElementTarget(id int64) BranchTarget {
	return BranchTarget{Kind: TargetElement, ElementID: id}
}

// HashTarget returns a target referencing a response video by hash.
func HashTarget(hash string) BranchTarget {
	return BranchTarget{Kind: TargetResponseHash, ResponseHash: hash}
}

func (t BranchTarget) String() string {
	switch t.Kind {
	case TargetElement:
		return "element:" + strconv.FormatInt(t.ElementID, 10)
	case TargetResponseHash:
		return "hash:" + t.ResponseHash
	default:
		return "none"
	}
}

// Branch is the outcome of evaluating an answer.
type Branch int

const (
	BranchSuccess Branch = iota
	BranchFailure
)

func (b Branch) String() string {
	if b == BranchSuccess {
		return "success"
	}
	return "failure"
}

// Item is one playlist entry.
type Item struct {
	ID     int64
	HashID string
	// Key is the de-duplication identity: HashID, or a positional key for
	// items without one.
	Key   string
	Kind  Kind
	Title string

	MediaURL     string
	ThumbnailURL string
	Duration     time.Duration
	// TimerOnEnd enables the end-of-video countdown. When false the feed
	// advances as soon as the video ends.
	TimerOnEnd bool

	// Challenge fields.
	Question      string
	AnswerMode    AnswerMode
	CorrectAnswer string
	SuccessTarget BranchTarget
	FailureTarget BranchTarget
	// Companion numeric ids recovered from the challenge payload, tried
	// when hash lookups fail.
	SuccessElementID int64
	FailureElementID int64
}

// IsChallenge reports whether the item is a challenge.
func (it *Item) IsChallenge() bool {
	return it.Kind == KindChallenge
}

// Target returns the branch target for b.
func (it *Item) Target(b Branch) BranchTarget {
	if b == BranchSuccess {
		return it.SuccessTarget
	}
	return it.FailureTarget
}

// CompanionID returns the numeric fallback id for b, or 0.
func (it *Item) CompanionID(b Branch) int64 {
	if b == BranchSuccess {
		return it.SuccessElementID
	}
	return it.FailureElementID
}
