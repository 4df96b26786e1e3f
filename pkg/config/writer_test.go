// pkg/config/writer_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Real filesystem (temp dirs)
// PURPOSE: Test writing the repository settings back to config.toml

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sdfm/pkg/config"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, config.Save(path, types.SSHURL("git@github.com:user/dotfiles.git"), "main"))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, types.SSHURL("git@github.com:user/dotfiles.git"), cfg.Repo)
	assert.Equal(t, "main", cfg.TargetBranch)
}

func TestSave_KeepsOtherKeys(t *testing.T) {
	path := writeConfig(t, `
repo = "git@old:dotfiles.git"
ssh_key = "/keys/id_ed25519"

[commit]
author = "me"
`)

	require.NoError(t, config.Save(path, types.SSHURL("git@new:dotfiles.git"), "desktop"))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, types.SSHURL("git@new:dotfiles.git"), cfg.Repo)
	assert.Equal(t, "desktop", cfg.TargetBranch)
	assert.Equal(t, "/keys/id_ed25519", cfg.SSHKey)
	assert.Equal(t, "me", cfg.Commit.Author)
}

func TestSave_RejectsCorruptFile(t *testing.T) {
	path := writeConfig(t, "repo = [")

	err := config.Save(path, types.SSHURL("git@host:r.git"), "main")
	require.Error(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "repo = [", string(data), "corrupt files are left untouched")
}
