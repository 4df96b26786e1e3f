package editor_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arthur-debert/sdfm/pkg/editor"
	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		want   []string
	}{
		{"unset falls back to nano", "", []string{"nano"}},
		{"blank falls back to nano", "   ", []string{"nano"}},
		{"plain command", "vim", []string{"vim"}},
		{"command with flags", "code --wait", []string{"code", "--wait"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(editor.EnvEditor, tt.editor)
			assert.Equal(t, tt.want, editor.Resolve())
		})
	}
}

func TestCommand(t *testing.T) {
	t.Setenv(editor.EnvEditor, "vim -n")
	cmd := editor.Command("/tmp/dotfiles")
	assert.Equal(t, []string{"vim", "-n", "/tmp/dotfiles"}, cmd.Args)
}

func TestOpen(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as editor")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho edited > \"$1\"\n"), 0755))
	target := filepath.Join(dir, "dotfiles")

	t.Setenv(editor.EnvEditor, script)
	require.NoError(t, editor.Open(target))

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "edited\n", string(content))

	t.Setenv(editor.EnvEditor, filepath.Join(dir, "missing-editor"))
	err = editor.Open(target)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}
