// Package sync drives one synchronization cycle between the live dotfiles,
// the local repository and its remote.
//
// A cycle checks out the target branch, mirrors every resolved manifest
// entry into the working tree, commits pending changes with the bot
// identity, fetches the remote branch and then either pushes local history
// or fast-forwards to the remote and restores live files. Diverged history
// is reported as a conflict unless the caller forces or skips the check.
// File contents are never merged.
package sync
