package datastore

import (
	"bytes"
	"os"

	"github.com/arthur-debert/sdfm/pkg/types"
)

// LinkState describes how a live file relates to its repository copy.
type LinkState string

const (
	// StateLinked means both paths are the same file.
	StateLinked LinkState = "linked"
	// StateCopied means the paths are distinct files with equal content.
	StateCopied LinkState = "copied"
	// StateModified means the repository copy differs from the live file.
	StateModified LinkState = "modified"
	// StatePending means the live file has not been mirrored yet.
	StatePending LinkState = "pending"
	// StateMissing means the live file does not exist on this device.
	StateMissing LinkState = "missing"
)

// EntryStatus is the link state of one manifest entry.
type EntryStatus struct {
	Entry    types.DotfileEntry
	RepoPath string
	State    LinkState
}

// Inspect reports the link state of every entry without changing anything.
// Unresolved entries are reported as missing.
func Inspect(s DataStore, fs types.FS, apps []types.Application) []EntryStatus {
	var out []EntryStatus
	for _, entry := range types.Entries(apps) {
		st := EntryStatus{Entry: entry, State: StateMissing}
		if entry.Resolved() {
			st.RepoPath = s.Locate(entry.LivePath)
			st.State = linkState(fs, entry.LivePath, st.RepoPath)
		}
		out = append(out, st)
	}
	return out
}

func linkState(fs types.FS, live, repo string) LinkState {
	liveInfo, err := fs.Stat(live)
	if err != nil {
		return StateMissing
	}
	repoInfo, err := fs.Stat(repo)
	if err != nil {
		return StatePending
	}
	if os.SameFile(liveInfo, repoInfo) {
		return StateLinked
	}

	a, errA := fs.ReadFile(live)
	b, errB := fs.ReadFile(repo)
	if errA == nil && errB == nil && bytes.Equal(a, b) {
		return StateCopied
	}
	return StateModified
}
