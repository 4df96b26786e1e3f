// pkg/config/loader_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Real filesystem (temp dirs), environment
// PURPOSE: Test layered configuration loading and validation

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sdfm/pkg/config"
	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sdfm", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"), nil)
	require.NoError(t, err)

	assert.False(t, cfg.Initialized())
	assert.Nil(t, cfg.Repo)
	assert.Equal(t, "master", cfg.TargetBranch)
	assert.Equal(t, "origin", cfg.Remote)
	assert.Equal(t, filepath.Join(home, ".ssh", "id_rsa"), cfg.SSHKey)
	assert.Equal(t, config.Commit{Author: "sdfm bot", Email: "sdfm", Message: "sdfm commit"}, cfg.Commit)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfig(t, `
repo = "git@github.com:user/dotfiles.git"
target_branch = "laptop"
ssh_key = "/keys/id_ed25519"

[commit]
message = "sync from laptop"
`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, types.SSHURL("git@github.com:user/dotfiles.git"), cfg.Repo)
	assert.Equal(t, "laptop", cfg.TargetBranch)
	assert.Equal(t, "/keys/id_ed25519", cfg.SSHKey)
	assert.Equal(t, "sync from laptop", cfg.Commit.Message)
	assert.Equal(t, "sdfm bot", cfg.Commit.Author, "unset keys keep their defaults")
	assert.NoError(t, cfg.Validate())
}

func TestLoad_HTTPSRepo(t *testing.T) {
	path := writeConfig(t, `repo = "https://github.com/user/dotfiles.git"`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, types.HTTPSURL("https://github.com/user/dotfiles.git"), cfg.Repo)
}

func TestLoad_InvalidRepo(t *testing.T) {
	path := writeConfig(t, `repo = "ftp://example.com/dotfiles"`)

	_, err := config.Load(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, `repo = "unterminated`)

	_, err := config.Load(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
repo = "git@github.com:user/dotfiles.git"
target_branch = "from-file"
`)
	t.Setenv("SDFM_TARGET_BRANCH", "from-env")
	t.Setenv("SDFM_COMMIT_AUTHOR", "env bot")
	t.Setenv("SDFM_CONFIG_DIR", "/ignored")

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TargetBranch)
	assert.Equal(t, "env bot", cfg.Commit.Author)

	cfg, err = config.Load(path, map[string]interface{}{"target_branch": "from-flag"})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.TargetBranch)
}

func TestLoad_EmptyEnvIgnored(t *testing.T) {
	t.Setenv("SDFM_TARGET_BRANCH", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "master", cfg.TargetBranch)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"complete", config.Config{Repo: types.SSHURL("git@host:r.git"), TargetBranch: "main", Remote: "origin"}, false},
		{"no repo", config.Config{TargetBranch: "main", Remote: "origin"}, true},
		{"no branch", config.Config{Repo: types.SSHURL("git@host:r.git"), Remote: "origin"}, true},
		{"no remote", config.Config{Repo: types.SSHURL("git@host:r.git"), TargetBranch: "main"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
