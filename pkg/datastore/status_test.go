// pkg/datastore/status_test.go
// TEST TYPE: DataStore Tests
// DEPENDENCIES: Real filesystem (ALLOWED for datastore package), afero memory FS
// PURPOSE: Test reporting of link states

package datastore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sdfm/pkg/datastore"
	"github.com/arthur-debert/sdfm/pkg/filesystem"
	"github.com/arthur-debert/sdfm/pkg/paths"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	env := setupTestEnvironment(t)
	home := env.paths.HomeDir()

	linked := filepath.Join(home, ".zshrc")
	writeFile(t, env.fs, linked, "zsh")
	_, err := env.ds.Materialize(linked)
	require.NoError(t, err)

	modified := filepath.Join(home, ".bashrc")
	writeFile(t, env.fs, modified, "bash")
	dest, err := env.ds.Materialize(modified)
	require.NoError(t, err)
	require.NoError(t, os.Remove(dest))
	require.NoError(t, os.WriteFile(dest, []byte("from remote"), 0644))

	pending := filepath.Join(home, ".profile")
	writeFile(t, env.fs, pending, "profile")

	apps := []types.Application{{Name: "shell", Dotfiles: []types.DotfileEntry{
		{Application: "shell", Name: "zshrc", LivePath: linked},
		{Application: "shell", Name: "bashrc", LivePath: modified},
		{Application: "shell", Name: "profile", LivePath: pending},
		{Application: "shell", Name: "gone", LivePath: filepath.Join(home, ".gone")},
		{Application: "shell", Name: "unresolved"},
	}}}

	got := datastore.Inspect(env.ds, env.fs, apps)
	require.Len(t, got, 5)

	states := map[string]datastore.LinkState{}
	for _, st := range got {
		states[st.Entry.Name] = st.State
	}
	assert.Equal(t, datastore.StateLinked, states["zshrc"])
	assert.Equal(t, datastore.StateModified, states["bashrc"])
	assert.Equal(t, datastore.StatePending, states["profile"])
	assert.Equal(t, datastore.StateMissing, states["gone"])
	assert.Equal(t, datastore.StateMissing, states["unresolved"])
	assert.Equal(t, filepath.Join(env.paths.RepoDir(), "homedir", ".zshrc"), got[0].RepoPath)
}

func TestInspect_Copied(t *testing.T) {
	fs := filesystem.NewMemory()
	p := paths.NewWithDirs("/home/u", "/home/u/.config", "/home/u/.config/sdfm")
	ds := datastore.New(fs, p)

	live := "/home/u/.vimrc"
	writeFile(t, fs, live, "set nu")
	_, err := ds.Materialize(live)
	require.NoError(t, err)

	got := datastore.Inspect(ds, fs, []types.Application{{Name: "vim", Dotfiles: []types.DotfileEntry{
		{Application: "vim", Name: "vimrc", LivePath: live},
	}}})
	require.Len(t, got, 1)
	assert.Equal(t, datastore.StateCopied, got[0].State)
}
