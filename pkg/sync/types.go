package sync

import (
	"github.com/arthur-debert/sdfm/pkg/datastore"
	"github.com/arthur-debert/sdfm/pkg/types"
)

// Direction selects which side wins a cycle.
type Direction int

const (
	// Push publishes local history to the remote.
	Push Direction = iota
	// Pull brings remote history into the repository and live files.
	Pull
)

func (d Direction) String() string {
	if d == Pull {
		return "pull"
	}
	return "push"
}

// State is a step of the cycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateCloned        State = "cloned"
	StateStaged        State = "staged"
	StateCommitted     State = "committed"
	StatePushed        State = "pushed"
	StatePulled        State = "pulled"
	StateSynced        State = "synced"
	StateFailed        State = "failed"
)

// Status is the outcome of a cycle.
type Status int

const (
	StatusSynced Status = iota
	StatusConflict
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSynced:
		return "synced"
	case StatusConflict:
		return "conflict"
	default:
		return "failed"
	}
}

// Options tune a cycle.
type Options struct {
	// Force overwrites the losing side when histories have diverged.
	Force bool
	// SkipDiff skips the ancestry check. A push may still be rejected by
	// the remote; a pull always overwrites.
	SkipDiff bool
	// TargetBranch overrides the configured branch when set.
	TargetBranch string
	Direction    Direction
	// Restore lists the entries written back to live files after a pull.
	// When nil the synced entries are used.
	Restore []types.Application
}

// Result reports what a cycle did.
type Result struct {
	Status Status
	Branch string
	// Commit is the hash of the commit created by this cycle, if any.
	Commit string
	Pushed bool
	Pulled bool
	// Failures are entries that could not be mirrored or restored. They do
	// not fail the cycle.
	Failures []datastore.EntryFailure
	// States lists the steps the cycle went through, in order.
	States []State
	Err    error
}

// Partial reports whether the cycle succeeded with some entries skipped.
func (r *Result) Partial() bool {
	return r.Status == StatusSynced && len(r.Failures) > 0
}

func (r *Result) enter(s State) {
	r.States = append(r.States, s)
}
