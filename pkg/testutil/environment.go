// pkg/testutil/environment.go
// DEPENDENCIES: Real filesystem (temp dirs), git binary
// PURPOSE: Orchestrate isolated sdfm environments for sync tests

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sdfm/pkg/datastore"
	"github.com/arthur-debert/sdfm/pkg/filesystem"
	"github.com/arthur-debert/sdfm/pkg/git"
	"github.com/arthur-debert/sdfm/pkg/paths"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/stretchr/testify/require"
)

// RemoteURL is the SSH URL test environments configure. The client
// rewrites it to the local bare remote.
const RemoteURL = types.SSHURL("git@example.com:user/dotfiles.git")

// TestEnvironment provides a complete, isolated device
type TestEnvironment struct {
	// Core paths
	HomeDir      string
	XdgConfigDir string
	RemoteDir    string

	// Core dependencies
	FS        types.FS
	Paths     paths.Paths
	DataStore datastore.DataStore
	Client    *git.Client

	t *testing.T
}

// NewTestEnvironment creates a home directory, XDG config directory and an
// empty bare remote under a temp dir.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	return NewTestEnvironmentWithRemote(t, NewBareRemote(t))
}

// NewTestEnvironmentWithRemote creates an environment syncing with an
// existing remote, so several devices can share one.
func NewTestEnvironmentWithRemote(t *testing.T, remote string) *TestEnvironment {
	t.Helper()
	RequireGit(t)

	root := t.TempDir()
	home := filepath.Join(root, "home")
	xdgConfig := filepath.Join(home, ".config")
	p := paths.NewWithDirs(home, xdgConfig, filepath.Join(xdgConfig, paths.SdfmDirName))

	fs := filesystem.NewOS()
	require.NoError(t, fs.MkdirAll(xdgConfig, 0755))

	return &TestEnvironment{
		HomeDir:      home,
		XdgConfigDir: xdgConfig,
		RemoteDir:    remote,
		FS:           fs,
		Paths:        p,
		DataStore:    datastore.New(fs, p),
		Client: git.NewClient(git.NoAuth{}, git.WithEndpoint(func(types.RepoURL) string {
			return remote
		})),
		t: t,
	}
}

// WriteLive writes a live dotfile and returns its absolute path. Relative
// paths are taken from the home directory.
func (env *TestEnvironment) WriteLive(path, content string) string {
	env.t.Helper()
	if !filepath.IsAbs(path) {
		path = filepath.Join(env.HomeDir, path)
	}
	require.NoError(env.t, env.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(env.t, env.FS.WriteFile(path, []byte(content), 0644))
	return path
}

// ReadLive returns the content of a live file.
func (env *TestEnvironment) ReadLive(path string) string {
	env.t.Helper()
	data, err := env.FS.ReadFile(path)
	require.NoError(env.t, err)
	return string(data)
}

// Apps builds a single application manifest from live paths named after
// their base names.
func Apps(app string, livePaths ...string) []types.Application {
	a := types.Application{Name: app}
	for _, p := range livePaths {
		a.Dotfiles = append(a.Dotfiles, types.DotfileEntry{
			Application: app,
			Name:        filepath.Base(p),
			LivePath:    p,
		})
	}
	return []types.Application{a}
}
