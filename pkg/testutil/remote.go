// pkg/testutil/remote.go
// DEPENDENCIES: git binary (git-upload-pack, git-receive-pack)
// PURPOSE: Local bare remotes and a second device for sync tests

package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// RequireGit skips the test when the git binaries are not installed. Local
// remotes are served by go-git's file transport, which runs
// git-upload-pack and git-receive-pack.
func RequireGit(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"git", "git-upload-pack", "git-receive-pack"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not found in PATH", bin)
		}
	}
}

// NewBareRemote creates an empty bare repository and returns its path.
func NewBareRemote(t *testing.T) string {
	t.Helper()
	RequireGit(t)

	dir := filepath.Join(t.TempDir(), "remote.git")
	if out, err := exec.Command("git", "init", "--bare", "--quiet", dir).CombinedOutput(); err != nil {
		t.Fatalf("git init --bare: %v\n%s", err, out)
	}
	return dir
}

// Device is an independent clone of a remote, standing in for another
// machine that syncs the same dotfiles.
type Device struct {
	t      *testing.T
	Dir    string
	repo   *gogit.Repository
	branch string
}

// NewDevice clones remote on branch. An empty remote, or one without the
// branch, gives a fresh repository with origin configured.
func NewDevice(t *testing.T, remote, branch string) *Device {
	t.Helper()
	RequireGit(t)

	dir := filepath.Join(t.TempDir(), "device")
	repo, err := gogit.PlainClone(dir, false, &gogit.CloneOptions{
		URL:           remote,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
	})
	if err != nil {
		require.NoError(t, os.RemoveAll(dir))
		repo, err = gogit.PlainInit(dir, false)
		require.NoError(t, err)
		_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{remote}})
		require.NoError(t, err)
		head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
		require.NoError(t, repo.Storer.SetReference(head))
	}

	return &Device{t: t, Dir: dir, repo: repo, branch: branch}
}

// Commit writes files (repository-relative path to content) and commits
// them.
func (d *Device) Commit(files map[string]string, message string) plumbing.Hash {
	d.t.Helper()

	for rel, content := range files {
		path := filepath.Join(d.Dir, filepath.FromSlash(rel))
		require.NoError(d.t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(d.t, os.WriteFile(path, []byte(content), 0644))
	}

	wt, err := d.repo.Worktree()
	require.NoError(d.t, err)
	require.NoError(d.t, wt.AddWithOptions(&gogit.AddOptions{All: true}))

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: "other device", Email: "device@example.com", When: time.Now()},
	})
	require.NoError(d.t, err)
	return hash
}

// Push pushes the device branch to the remote.
func (d *Device) Push() {
	d.t.Helper()

	ref := plumbing.NewBranchReferenceName(d.branch)
	err := d.repo.Push(&gogit.PushOptions{
		RefSpecs: []config.RefSpec{config.RefSpec(ref + ":" + ref)},
	})
	if err == gogit.NoErrAlreadyUpToDate {
		return
	}
	require.NoError(d.t, err)
}

// RemoteHead returns the tip of branch in a bare remote.
func RemoteHead(t *testing.T, remote, branch string) (plumbing.Hash, bool) {
	t.Helper()

	repo, err := gogit.PlainOpen(remote)
	require.NoError(t, err)
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return plumbing.ZeroHash, false
	}
	return ref.Hash(), true
}

// RemoteFile returns the content of a file at the tip of branch.
func RemoteFile(t *testing.T, remote, branch, rel string) string {
	t.Helper()

	repo, err := gogit.PlainOpen(remote)
	require.NoError(t, err)
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	require.NoError(t, err)
	commit, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	file, err := commit.File(rel)
	require.NoError(t, err)
	content, err := file.Contents()
	require.NoError(t, err)
	return content
}

// CommitCount returns the number of commits reachable from branch.
func CommitCount(t *testing.T, remote, branch string) int {
	t.Helper()

	hash, ok := RemoteHead(t, remote, branch)
	if !ok {
		return 0
	}
	repo, err := gogit.PlainOpen(remote)
	require.NoError(t, err)
	iter, err := repo.Log(&gogit.LogOptions{From: hash})
	require.NoError(t, err)

	count := 0
	require.NoError(t, iter.ForEach(func(*object.Commit) error {
		count++
		return nil
	}))
	return count
}
