// pkg/git/client_test.go
// TEST TYPE: Integration Tests
// DEPENDENCIES: Real filesystem (temp dirs), git binary (local bare remotes)
// PURPOSE: Test clone, commit, fetch and push against local bare remotes

package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/git"
	"github.com/arthur-debert/sdfm/pkg/testutil"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sig = git.Signature{Name: "sdfm bot", Email: "sdfm"}

func newClient(remote string) *git.Client {
	return git.NewClient(git.NoAuth{}, git.WithEndpoint(func(types.RepoURL) string { return remote }))
}

func writeRepoFile(t *testing.T, repo *git.Repository, rel, content string) {
	t.Helper()
	path := filepath.Join(repo.Dir(), filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestClone_EmptyRemote(t *testing.T) {
	ctx := context.Background()
	remote := testutil.NewBareRemote(t)
	dir := filepath.Join(t.TempDir(), "repo")

	repo, err := newClient(remote).Clone(ctx, testutil.RemoteURL, dir, "laptop")
	require.NoError(t, err)
	assert.True(t, git.IsRepository(dir))

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "laptop", branch)

	_, ok, err := repo.Head()
	require.NoError(t, err)
	assert.False(t, ok, "no commits yet")

	_, ok, err = repo.Fetch(ctx, "laptop")
	require.NoError(t, err)
	assert.False(t, ok)

	writeRepoFile(t, repo, "homedir/.zshrc", "zsh")
	pending, err := repo.StageAll()
	require.NoError(t, err)
	require.True(t, pending)

	hash, err := repo.Commit("sdfm commit", sig)
	require.NoError(t, err)
	require.NoError(t, repo.Push(ctx, "laptop", false))

	tip, ok := testutil.RemoteHead(t, remote, "laptop")
	require.True(t, ok)
	assert.Equal(t, hash, tip)
	assert.Equal(t, "zsh", testutil.RemoteFile(t, remote, "laptop", "homedir/.zshrc"))
}

func TestClone_ExistingBranch(t *testing.T) {
	remote := testutil.NewBareRemote(t)
	device := testutil.NewDevice(t, remote, "master")
	tip := device.Commit(map[string]string{"homedir/.bashrc": "bash"}, "seed")
	device.Push()

	dir := filepath.Join(t.TempDir(), "repo")
	repo, err := newClient(remote).Clone(context.Background(), testutil.RemoteURL, dir, "master")
	require.NoError(t, err)

	head, ok, err := repo.Head()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tip, head)

	content, err := os.ReadFile(filepath.Join(dir, "homedir", ".bashrc"))
	require.NoError(t, err)
	assert.Equal(t, "bash", string(content))
}

func TestClone_MissingBranchStartsFromDefault(t *testing.T) {
	remote := testutil.NewBareRemote(t)
	device := testutil.NewDevice(t, remote, "master")
	seed := device.Commit(map[string]string{"homedir/.bashrc": "bash"}, "seed")
	device.Push()

	dir := filepath.Join(t.TempDir(), "repo")
	repo, err := newClient(remote).Clone(context.Background(), testutil.RemoteURL, dir, "desktop")
	require.NoError(t, err)

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "desktop", branch)

	head, ok, err := repo.Head()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, seed, head)
}

func TestClone_RefusesExistingRepository(t *testing.T) {
	remote := testutil.NewBareRemote(t)
	dir := filepath.Join(t.TempDir(), "repo")
	client := newClient(remote)

	_, err := client.Clone(context.Background(), testutil.RemoteURL, dir, "master")
	require.NoError(t, err)

	_, err = client.Clone(context.Background(), testutil.RemoteURL, dir, "master")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepoState))
}

func TestOpen(t *testing.T) {
	remote := testutil.NewBareRemote(t)
	dir := filepath.Join(t.TempDir(), "repo")
	client := newClient(remote)

	_, err := client.Open(testutil.RemoteURL, dir)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepoOpen))

	_, err = client.Clone(context.Background(), testutil.RemoteURL, dir, "main")
	require.NoError(t, err)

	repo, err := client.Open(testutil.RemoteURL, dir)
	require.NoError(t, err)
	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestStageAll_NothingPending(t *testing.T) {
	remote := testutil.NewBareRemote(t)
	repo, err := newClient(remote).Clone(context.Background(), testutil.RemoteURL, filepath.Join(t.TempDir(), "repo"), "master")
	require.NoError(t, err)

	writeRepoFile(t, repo, "homedir/.vimrc", "set nu")
	pending, err := repo.StageAll()
	require.NoError(t, err)
	require.True(t, pending)
	_, err = repo.Commit("sdfm commit", sig)
	require.NoError(t, err)

	pending, err = repo.StageAll()
	require.NoError(t, err)
	assert.False(t, pending)

	require.NoError(t, os.Remove(filepath.Join(repo.Dir(), "homedir", ".vimrc")))
	pending, err = repo.StageAll()
	require.NoError(t, err)
	assert.True(t, pending, "deletions are staged")
}

func TestPush_RejectsDivergedHistory(t *testing.T) {
	ctx := context.Background()
	remote := testutil.NewBareRemote(t)
	repo, err := newClient(remote).Clone(ctx, testutil.RemoteURL, filepath.Join(t.TempDir(), "repo"), "master")
	require.NoError(t, err)

	writeRepoFile(t, repo, "homedir/.zshrc", "local")
	_, err = repo.StageAll()
	require.NoError(t, err)
	base, err := repo.Commit("sdfm commit", sig)
	require.NoError(t, err)
	require.NoError(t, repo.Push(ctx, "master", false))

	device := testutil.NewDevice(t, remote, "master")
	other := device.Commit(map[string]string{"homedir/.zshrc": "other"}, "other device")
	device.Push()

	writeRepoFile(t, repo, "homedir/.zshrc", "local edit")
	_, err = repo.StageAll()
	require.NoError(t, err)
	local, err := repo.Commit("sdfm commit", sig)
	require.NoError(t, err)

	tip, ok, err := repo.Fetch(ctx, "master")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, other, tip)

	ahead, err := repo.IsAncestor(base, local)
	require.NoError(t, err)
	assert.True(t, ahead)
	ff, err := repo.IsAncestor(tip, local)
	require.NoError(t, err)
	assert.False(t, ff)

	err = repo.Push(ctx, "master", false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPushRejected))
	assert.True(t, errors.IsConflict(err))

	require.NoError(t, repo.Push(ctx, "master", true))
	remoteTip, _ := testutil.RemoteHead(t, remote, "master")
	assert.Equal(t, local, remoteTip)
}

func TestFetch_LocalCommitsUnknownToRemote(t *testing.T) {
	ctx := context.Background()
	remote := testutil.NewBareRemote(t)
	repo, err := newClient(remote).Clone(ctx, testutil.RemoteURL, filepath.Join(t.TempDir(), "repo"), "master")
	require.NoError(t, err)

	writeRepoFile(t, repo, "homedir/.zshrc", "never pushed")
	_, err = repo.StageAll()
	require.NoError(t, err)
	local, err := repo.Commit("sdfm commit", sig)
	require.NoError(t, err)

	device := testutil.NewDevice(t, remote, "master")
	other := device.Commit(map[string]string{"homedir/.zshrc": "other"}, "other device")
	device.Push()

	tip, ok, err := repo.Fetch(ctx, "master")
	require.NoError(t, err, "a fetch must not fail because the local branch has commits the remote lacks")
	require.True(t, ok)
	assert.Equal(t, other, tip)

	related, err := repo.IsAncestor(tip, local)
	require.NoError(t, err)
	assert.False(t, related)
}

func TestPendingMatches(t *testing.T) {
	ctx := context.Background()
	remote := testutil.NewBareRemote(t)
	device := testutil.NewDevice(t, remote, "master")
	published := device.Commit(map[string]string{"homedir/.profile": "v1"}, "v1")
	device.Push()

	repo, err := newClient(remote).Clone(ctx, testutil.RemoteURL, filepath.Join(t.TempDir(), "repo"), "master")
	require.NoError(t, err)

	writeRepoFile(t, repo, "homedir/.profile", "v1")
	same, err := repo.PendingMatches(published)
	require.NoError(t, err)
	assert.True(t, same, "a clean tree matches")

	writeRepoFile(t, repo, "homedir/.profile", "edited")
	_, err = repo.StageAll()
	require.NoError(t, err)
	same, err = repo.PendingMatches(published)
	require.NoError(t, err)
	assert.False(t, same)

	writeRepoFile(t, repo, "homedir/.profile", "v1")
	writeRepoFile(t, repo, "homedir/.zshrc", "new")
	_, err = repo.StageAll()
	require.NoError(t, err)
	same, err = repo.PendingMatches(published)
	require.NoError(t, err)
	assert.False(t, same, "a file missing from the commit does not match")
}

func TestResetHard(t *testing.T) {
	ctx := context.Background()
	remote := testutil.NewBareRemote(t)
	device := testutil.NewDevice(t, remote, "master")
	device.Commit(map[string]string{"homedir/.profile": "v1"}, "v1")
	device.Push()

	repo, err := newClient(remote).Clone(ctx, testutil.RemoteURL, filepath.Join(t.TempDir(), "repo"), "master")
	require.NoError(t, err)

	v2 := device.Commit(map[string]string{"homedir/.profile": "v2"}, "v2")
	device.Push()

	tip, ok, err := repo.Fetch(ctx, "master")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, v2, tip)

	require.NoError(t, repo.ResetHard(tip))
	content, err := os.ReadFile(filepath.Join(repo.Dir(), "homedir", ".profile"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(content))

	head, _, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, v2, head)
}
