package paths

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		envSetup map[string]string
		validate func(t *testing.T, p Paths, home string)
	}{
		{
			name: "defaults from XDG_CONFIG_HOME",
			validate: func(t *testing.T, p Paths, home string) {
				assert.Equal(t, filepath.Join(home, ".config"), p.XdgConfigDir())
				assert.Equal(t, filepath.Join(home, ".config", "sdfm"), p.ConfigDir())
				assert.Equal(t, filepath.Join(home, ".config", "sdfm", "config.toml"), p.ConfigFilePath())
				assert.Equal(t, filepath.Join(home, ".config", "sdfm", "dotfiles"), p.ManifestPath())
				assert.Equal(t, filepath.Join(home, ".config", "sdfm", "repo"), p.RepoDir())
			},
		},
		{
			name: "custom sdfm directories",
			envSetup: map[string]string{
				EnvSdfmConfigDir: "/custom/config",
				EnvSdfmStateDir:  "/custom/state",
			},
			validate: func(t *testing.T, p Paths, home string) {
				assert.Equal(t, "/custom/config", p.ConfigDir())
				assert.Equal(t, "/custom/state/sdfm.log", p.LogFilePath())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv(EnvHome, home)
			t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
			t.Setenv(EnvSdfmConfigDir, "")
			t.Setenv(EnvSdfmStateDir, "")
			for k, v := range tt.envSetup {
				t.Setenv(k, v)
			}

			p, err := New()
			require.NoError(t, err)
			tt.validate(t, p, home)
		})
	}
}

func TestPathsClassifyUsesInjectedDirs(t *testing.T) {
	p := NewWithDirs("/home/u", "/home/u/.config", "/home/u/.config/sdfm")
	assert.Equal(t, types.XdgConfig{Rel: "i3/config"}, p.Classify("/home/u/.config/i3/config"))
	assert.Equal(t, types.HomeDir{Rel: ".bashrc"}, p.Classify("/home/u/.bashrc"))
}

func TestExpandHome(t *testing.T) {
	t.Setenv(EnvHome, "/home/tester")

	tests := []struct {
		in   string
		want string
	}{
		{"~", "/home/tester"},
		{"~/.ssh/id_rsa", "/home/tester/.ssh/id_rsa"},
		{"/abs/path", "/abs/path"},
		{"~other/file", "~other/file"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandHome(tt.in), tt.in)
	}
}

func TestContainsPath(t *testing.T) {
	assert.True(t, ContainsPath("/home/u", "/home/u"))
	assert.True(t, ContainsPath("/home/u", "/home/u/a"))
	assert.False(t, ContainsPath("/home/u", "/home/user"))
	assert.True(t, ContainsPath("/", "/etc"))
}
