package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCompletion(t *testing.T) {
	cases := []struct {
		raw     string
		present bool
		want    CompletionState
	}{
		{"", false, NeverRun},
		{"", true, NeverRun},
		{"0", true, NeverRun},
		{"false", true, NeverRun},
		{"1", true, RanWithChanges},
		{"true", true, RanWithChanges},
		{"2025-03-10 14:05:09", true, RanNoChanges},
		{"1", false, NeverRun},
	}
	for _, c := range cases {
		got := ParseCompletion(c.raw, c.present)
		assert.Equal(t, c.want, got.State, "raw=%q present=%t", c.raw, c.present)
		assert.Equal(t, c.want != NeverRun, got.Done())
	}
	assert.Equal(t, "2025-03-10 14:05:09", ParseCompletion(" 2025-03-10 14:05:09 ", true).At)
}

func TestCompletionFor_Value(t *testing.T) {
	assert.Equal(t, "1", CompletionFor(true, testNow).Value())
	assert.Equal(t, testNow, CompletionFor(false, testNow).Value())
	assert.Equal(t, "", Completion{}.Value())

	// round trip through the persisted form
	assert.Equal(t, RanNoChanges, ParseCompletion(CompletionFor(false, testNow).Value(), true).State)
	assert.Equal(t, RanWithChanges, ParseCompletion(CompletionFor(true, testNow).Value(), true).State)
}

func TestCompletionState_String(t *testing.T) {
	assert.Equal(t, "never_run", NeverRun.String())
	assert.Equal(t, "ran_with_changes", RanWithChanges.String())
	assert.Equal(t, "ran_no_changes", RanNoChanges.String())
}
