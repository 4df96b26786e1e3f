// Package testutil provides utilities for testing sdfm components.
//
// Key components:
//   - TestEnvironment: isolated home, XDG config and repository directories
//     under a temp dir, wired to a DataStore and a git Client
//   - Bare remotes: local repositories reached over go-git's file
//     transport, which runs the installed git binaries
//   - Device helpers: a second clone of the remote used to create
//     concurrent history
//
// All test data should be defined inline, and each test gets its own
// environment with no shared state.
package testutil
