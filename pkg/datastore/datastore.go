package datastore

import (
	"fmt"

	"github.com/arthur-debert/sdfm/pkg/types"
)

// DataStore manages the repository-side copy of tracked dotfiles.
type DataStore interface {
	// Locate returns the repository path a live file is mirrored to.
	Locate(livePath string) string

	// Materialize mirrors one live file into the repository and returns the
	// repository path.
	Materialize(livePath string) (string, error)

	// MaterializeAll mirrors every resolved entry. Failures are collected
	// per entry and never stop the remaining entries.
	MaterializeAll(apps []types.Application) []EntryFailure

	// Restore writes repository content back over the live file. It reports
	// whether the live file changed.
	Restore(livePath string) (bool, error)

	// RestoreAll restores every resolved entry.
	RestoreAll(apps []types.Application) []EntryFailure

	// RepoRoot returns the repository working tree root.
	RepoRoot() string
}

// EntryFailure records why a single entry could not be processed.
type EntryFailure struct {
	Entry types.DotfileEntry
	Err   error
}

func (f EntryFailure) Error() string {
	return fmt.Sprintf("%s/%s (%s): %v", f.Entry.Application, f.Entry.Name, f.Entry.LivePath, f.Err)
}

func (f EntryFailure) Unwrap() error {
	return f.Err
}
