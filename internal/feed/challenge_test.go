package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBool(t *testing.T) {
	tests := []struct {
		in       string
		want, ok bool
	}{
		{"Yes", true, true},
		{" TRUE ", true, true},
		{"1", true, true},
		{"no", false, true},
		{"False", false, true},
		{"0", false, true},
		{"maybe", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		got, ok := NormalizeBool(tt.in)
		assert.Equal(t, tt.ok, ok, "ok for %q", tt.in)
		assert.Equal(t, tt.want, got, "value for %q", tt.in)
	}
}

func TestEvaluateBoolean(t *testing.T) {
	assert.Equal(t, BranchSuccess, EvaluateBoolean("yes", true))
	assert.Equal(t, BranchFailure, EvaluateBoolean("yes", false))
	assert.Equal(t, BranchSuccess, EvaluateBoolean("0", false))
	assert.Equal(t, BranchSuccess, EvaluateBoolean("1", true))
	assert.Equal(t, BranchFailure, EvaluateBoolean("1", false))
	// An unreadable correct answer can never be matched.
	assert.Equal(t, BranchFailure, EvaluateBoolean("perhaps", true))
	assert.Equal(t, BranchFailure, EvaluateBoolean("perhaps", false))
}

func TestEvaluateText(t *testing.T) {
	assert.Equal(t, BranchSuccess, EvaluateText("Paris", "  paris "))
	assert.Equal(t, BranchFailure, EvaluateText("Paris", "Lyon"))
	assert.Equal(t, BranchFailure, EvaluateText("", ""))
}

func TestAttemptDone(t *testing.T) {
	var nilAttempt *Attempt
	assert.False(t, nilAttempt.Done())
	assert.False(t, (&Attempt{Status: StatusResolving}).Done())
	assert.True(t, (&Attempt{Status: StatusFailure}).Done())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "Yes", BoolLabel(true))
}
