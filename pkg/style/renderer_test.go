// pkg/style/renderer_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test plain-text rendering of command results

package style_test

import (
	"testing"

	"github.com/arthur-debert/sdfm/pkg/datastore"
	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/style"
	"github.com/arthur-debert/sdfm/pkg/sync"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestRenderSyncResult(t *testing.T) {
	r := style.NewRenderer(style.FormatText)

	tests := []struct {
		name     string
		result   *sync.Result
		contains []string
	}{
		{
			name:     "up to date",
			result:   &sync.Result{Status: sync.StatusSynced, Branch: "master"},
			contains: []string{"[ok]", "Already up to date on master"},
		},
		{
			name: "committed and pushed",
			result: &sync.Result{
				Status: sync.StatusSynced,
				Branch: "laptop",
				Commit: "0123456789abcdef",
				Pushed: true,
			},
			contains: []string{"Committed 01234567", "pushed to laptop"},
		},
		{
			name: "conflict",
			result: &sync.Result{
				Status: sync.StatusConflict,
				Branch: "master",
				Err:    errors.New(errors.ErrConflict, "histories have diverged"),
			},
			contains: []string{"[warn]", "Conflict on master", "histories have diverged"},
		},
		{
			name: "failure",
			result: &sync.Result{
				Status: sync.StatusFailed,
				Err:    errors.Wrap(assert.AnError, errors.ErrTransport, "fetch failed"),
			},
			contains: []string{"[error]", "Sync failed", "fetch failed"},
		},
		{
			name: "partial",
			result: &sync.Result{
				Status: sync.StatusSynced,
				Branch: "master",
				Failures: []datastore.EntryFailure{{
					Entry: types.DotfileEntry{Application: "vim", Name: "vimrc"},
					Err:   errors.New(errors.ErrFileAccess, "permission denied"),
				}},
			},
			contains: []string{"1 dotfile(s) skipped", "vim/vimrc", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.RenderSyncResult(tt.result)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRenderSyncResultStripsCode(t *testing.T) {
	r := style.NewRenderer(style.FormatText)
	out := r.RenderSyncResult(&sync.Result{
		Status: sync.StatusFailed,
		Err:    errors.New(errors.ErrRepoOpen, "no repository"),
	})
	assert.NotContains(t, out, "REPO_OPEN")
	assert.Contains(t, out, "no repository")
}

func TestRenderStatus(t *testing.T) {
	r := style.NewRenderer(style.FormatText)
	entries := []datastore.EntryStatus{
		{Entry: types.DotfileEntry{Application: "vim", Name: "vimrc", LivePath: "/home/u/.vimrc"}, State: datastore.StateLinked},
		{Entry: types.DotfileEntry{Application: "zsh", Name: "zshrc"}, State: datastore.StateMissing},
	}

	out := r.RenderStatus("git@example.com:u/dots.git", "master", entries)

	assert.Contains(t, out, "git@example.com:u/dots.git (master)")
	assert.Contains(t, out, "vim")
	assert.Contains(t, out, "linked")
	assert.Contains(t, out, "/home/u/.vimrc")
	assert.Contains(t, out, "missing")
}

func TestRenderStatusUninitialized(t *testing.T) {
	r := style.NewRenderer(style.FormatText)
	out := r.RenderStatus("", "", nil)
	assert.Contains(t, out, "not initialized")
	assert.Contains(t, out, "none tracked")
}

func TestRenderApplications(t *testing.T) {
	r := style.NewRenderer(style.FormatText)

	assert.Equal(t, "No dotfiles found.", r.RenderApplications(nil))

	out := r.RenderApplications([]types.Application{
		{Name: "i3", Dotfiles: []types.DotfileEntry{{Application: "i3", Name: "config", LivePath: "/home/u/.config/i3/config"}}},
		{Name: "mpd"},
	})
	assert.Contains(t, out, "i3")
	assert.Contains(t, out, "/home/u/.config/i3/config")
	assert.NotContains(t, out, "mpd")
}

func TestRenderError(t *testing.T) {
	r := style.NewRenderer(style.FormatText)
	out := r.RenderError(errors.New(errors.ErrPassphraseRequired, "ssh key is encrypted"))
	assert.Equal(t, "[error] ssh key is encrypted", out)
}

func TestMarkdownRendererPlain(t *testing.T) {
	md := "# Title\n\nBody\n"
	assert.Equal(t, md, style.NewMarkdownRenderer(style.FormatText).Render(md))
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "text", style.FormatText.String())
	assert.Equal(t, "term", style.FormatTerminal.String())
}
