package migration

import "strings"

// CompletionState is what the persisted migration flag says about past
// runs.
type CompletionState int

const (
	// NeverRun: the flag is missing or falsy.
	NeverRun CompletionState = iota
	// RanWithChanges: a run inserted at least one row (flag "1").
	RanWithChanges
	// RanNoChanges: a run finished without inserting (flag holds a timestamp).
	RanNoChanges
)

func (s CompletionState) String() string {
	switch s {
	case RanWithChanges:
		return "ran_with_changes"
	case RanNoChanges:
		return "ran_no_changes"
	}
	return "never_run"
}

// Completion is the decoded migration flag. At is set for RanNoChanges.
type Completion struct {
	State CompletionState `json:"-"`
	At    string          `json:"at,omitempty"`
}

// ParseCompletion decodes the stored flag. Both "1" and a timestamp are
// truthy; "", "0" and "false" mean the migration never ran.
func ParseCompletion(raw string, present bool) Completion {
	v := strings.TrimSpace(raw)
	if !present {
		return Completion{State: NeverRun}
	}
	switch strings.ToLower(v) {
	case "", "0", "false":
		return Completion{State: NeverRun}
	case "1", "true":
		return Completion{State: RanWithChanges}
	}
	return Completion{State: RanNoChanges, At: v}
}

// CompletionFor builds the flag written at the end of a run.
func CompletionFor(migrated bool, at string) Completion {
	if migrated {
		return Completion{State: RanWithChanges}
	}
	return Completion{State: RanNoChanges, At: at}
}

// Done reports whether a run was already attempted. Both outcomes block
// further runs.
func (c Completion) Done() bool { return c.State != NeverRun }

// Value is the string persisted in the option store.
func (c Completion) Value() string {
	switch c.State {
	case RanWithChanges:
		return "1"
	case RanNoChanges:
		return c.At
	}
	return ""
}
