package feed

import (
	"fmt"
	"strings"

	"github.com/hejvi/hejvi/internal/media"
)

// AttemptStatus is the state of a challenge attempt.
type AttemptStatus int

const (
	StatusUnanswered AttemptStatus = iota
	StatusResolving
	StatusSuccess
	StatusFailure
)

func (s AttemptStatus) String() string {
	switch s {
	case StatusUnanswered:
		return "unanswered"
	case StatusResolving:
		return "resolving"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return fmt.Sprintf("AttemptStatus(%d)", int(s))
	}
}

// Attempt is the transient answer state of one challenge item.
type Attempt struct {
	Status AttemptStatus
	Branch Branch
	Answer string

	OverlayURL       string // empty when unresolved or unavailable
	OverlayThumbnail string
	OverlayKind      media.Kind
	Err              error // resolution failure, shown in the overlay

	token int
}

// Done reports whether the attempt reached a terminal state.
func (a *Attempt) Done() bool {
	return a != nil && (a.Status == StatusSuccess || a.Status == StatusFailure)
}

// NormalizeBool reads s as a boolean answer. It accepts yes/true/1 and
// no/false/0 in any case.
func NormalizeBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, true
	case "no", "false", "0":
		return false, true
	}
	return false, false
}

// NormalizeText prepares free text for comparison.
func NormalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EvaluateBoolean returns the branch for pressing the control mapped to
// pressed. A correct answer that is not a boolean never matches.
func EvaluateBoolean(correct string, pressed bool) Branch {
	want, ok := NormalizeBool(correct)
	if ok && want == pressed {
		return BranchSuccess
	}
	return BranchFailure
}

// EvaluateText returns the branch for a free-text answer.
func EvaluateText(correct, given string) Branch {
	if NormalizeText(given) == NormalizeText(correct) && NormalizeText(correct) != "" {
		return BranchSuccess
	}
	return BranchFailure
}

// BoolLabel is the control label for a boolean answer.
func BoolLabel(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
