package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/logging"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Signature identifies the author of automatic commits.
type Signature struct {
	Name  string
	Email string
}

// Repository is an opened working tree plus the remote it syncs with.
type Repository struct {
	repo   *gogit.Repository
	dir    string
	remote string
	auth   transport.AuthMethod
}

func newRepository(repo *gogit.Repository, dir, remote string, auth transport.AuthMethod) *Repository {
	return &Repository{repo: repo, dir: dir, remote: remote, auth: auth}
}

// Dir returns the working tree root.
func (r *Repository) Dir() string { return r.dir }

// Head returns the commit HEAD points to. ok is false while the current
// branch has no commits.
func (r *Repository) Head() (hash plumbing.Hash, ok bool, err error) {
	ref, err := r.repo.Head()
	if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, errors.Wrap(err, errors.ErrRepoState, "cannot resolve HEAD")
	}
	return ref.Hash(), true, nil
}

// CurrentBranch returns the short name of the branch HEAD refers to.
func (r *Repository) CurrentBranch() (string, error) {
	ref, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrRepoState, "cannot read HEAD")
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", errors.New(errors.ErrRepoState, "HEAD is detached")
	}
	return ref.Target().Short(), nil
}

// Checkout switches to branch. A missing branch is created from the remote
// tracking branch when one was fetched, otherwise from HEAD. On a repository
// without commits HEAD is simply pointed at the new branch. Uncommitted
// files in the working tree are kept.
func (r *Repository) Checkout(branch string) error {
	logger := logging.GetLogger("git.checkout")
	name := plumbing.NewBranchReferenceName(branch)

	if current, err := r.CurrentBranch(); err == nil && current == branch {
		return nil
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return errors.Wrap(err, errors.ErrRepoOpen, "repository has no working tree")
	}

	if _, err := r.repo.Reference(name, true); err == nil {
		logger.Debug().Str("branch", branch).Msg("Switching to existing branch")
		return r.checkout(wt, &gogit.CheckoutOptions{Branch: name, Keep: true})
	}

	if ref, err := r.repo.Reference(plumbing.NewRemoteReferenceName(r.remote, branch), true); err == nil {
		logger.Debug().Str("branch", branch).Str("from", ref.Hash().String()).Msg("Creating branch from remote")
		return r.checkout(wt, &gogit.CheckoutOptions{Branch: name, Hash: ref.Hash(), Create: true, Keep: true})
	}

	head, ok, err := r.Head()
	if err != nil {
		return err
	}
	if ok {
		logger.Debug().Str("branch", branch).Str("from", head.String()).Msg("Creating branch from HEAD")
		return r.checkout(wt, &gogit.CheckoutOptions{Branch: name, Hash: head, Create: true, Keep: true})
	}

	logger.Debug().Str("branch", branch).Msg("Pointing unborn HEAD at branch")
	if err := r.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, name)); err != nil {
		return errors.Wrap(err, errors.ErrRepoState, "failed to set HEAD")
	}
	return nil
}

func (r *Repository) checkout(wt *gogit.Worktree, opts *gogit.CheckoutOptions) error {
	if err := wt.Checkout(opts); err != nil {
		return errors.Wrapf(err, errors.ErrRepoState, "failed to check out %s", opts.Branch.Short()).
			WithDetail("branch", opts.Branch.Short())
	}
	return nil
}

// StageAll stages every addition, modification and deletion in the working
// tree. It reports whether anything is pending commit.
func (r *Repository) StageAll() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrRepoOpen, "repository has no working tree")
	}
	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return false, errors.Wrap(err, errors.ErrRepoState, "failed to stage changes")
	}
	status, err := wt.Status()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrRepoState, "failed to read status")
	}
	return !status.IsClean(), nil
}

// PendingMatches reports whether every pending change in the working tree
// already has the same content in the commit hash. A path missing from both
// counts as a match.
func (r *Repository) PendingMatches(hash plumbing.Hash) (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrRepoOpen, "repository has no working tree")
	}
	status, err := wt.Status()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrRepoState, "failed to read status")
	}
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrRepoState, "unknown commit %s", hash)
	}

	for rel := range status {
		want, inCommit, err := commitFile(commit, rel)
		if err != nil {
			return false, err
		}
		got, err := os.ReadFile(filepath.Join(r.dir, filepath.FromSlash(rel)))
		inTree := err == nil
		if err != nil && !os.IsNotExist(err) {
			return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", rel)
		}
		if inTree != inCommit || string(got) != want {
			return false, nil
		}
	}
	return true, nil
}

func commitFile(commit *object.Commit, rel string) (string, bool, error) {
	file, err := commit.File(rel)
	if stderrors.Is(err, object.ErrFileNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrRepoState, "cannot read %s at %s", rel, commit.Hash)
	}
	content, err := file.Contents()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrRepoState, "cannot read %s at %s", rel, commit.Hash)
	}
	return content, true, nil
}

// Commit records the staged changes.
func (r *Repository) Commit(message string, sig Signature) (plumbing.Hash, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, errors.ErrRepoOpen, "repository has no working tree")
	}
	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: sig.Name, Email: sig.Email, When: time.Now()},
	})
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, errors.ErrRepoState, "failed to commit")
	}
	logger := logging.GetLogger("git.commit")
	logger.Debug().Str("commit", hash.String()).Msg("Committed changes")
	return hash, nil
}

// Fetch updates the remote tracking ref for branch and returns its tip. ok
// is false when the remote has no such branch.
func (r *Repository) Fetch(ctx context.Context, branch string) (tip plumbing.Hash, ok bool, err error) {
	logger := logging.GetLogger("git.fetch")
	tracking := plumbing.NewRemoteReferenceName(r.remote, branch)
	spec := config.RefSpec(fmt.Sprintf("+%s:%s", plumbing.NewBranchReferenceName(branch), tracking))

	err = r.repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: r.remote,
		RefSpecs:   []config.RefSpec{spec},
		Auth:       r.auth,
	})
	switch {
	case err == nil, stderrors.Is(err, gogit.NoErrAlreadyUpToDate):
	case stderrors.Is(err, transport.ErrEmptyRemoteRepository), isReferenceNotFound(err):
		logger.Debug().Str("branch", branch).Msg("Branch does not exist on remote")
		return plumbing.ZeroHash, false, nil
	default:
		return plumbing.ZeroHash, false, classify(err, "fetch")
	}

	ref, err := r.repo.Reference(tracking, true)
	if err != nil {
		return plumbing.ZeroHash, false, nil
	}
	logger.Debug().Str("branch", branch).Str("tip", ref.Hash().String()).Msg("Fetched remote branch")
	return ref.Hash(), true, nil
}

// IsAncestor reports whether ancestor is reachable from descendant. A
// commit is its own ancestor.
func (r *Repository) IsAncestor(ancestor, descendant plumbing.Hash) (bool, error) {
	if ancestor == descendant {
		return true, nil
	}
	a, err := r.repo.CommitObject(ancestor)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrRepoState, "unknown commit %s", ancestor)
	}
	d, err := r.repo.CommitObject(descendant)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrRepoState, "unknown commit %s", descendant)
	}
	ok, err := a.IsAncestor(d)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrRepoState, "failed to walk history")
	}
	return ok, nil
}

// Push sends branch to the remote branch of the same name. force replaces
// the remote history.
func (r *Repository) Push(ctx context.Context, branch string, force bool) error {
	ref := plumbing.NewBranchReferenceName(branch)
	spec := fmt.Sprintf("%s:%s", ref, ref)
	if force {
		spec = "+" + spec
	}

	err := r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: r.remote,
		RefSpecs:   []config.RefSpec{config.RefSpec(spec)},
		Auth:       r.auth,
		Force:      force,
	})
	if err != nil && !stderrors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return classify(err, "push")
	}
	logger := logging.GetLogger("git.push")
	logger.Debug().Str("branch", branch).Bool("force", force).Msg("Pushed branch")
	return nil
}

// ResetHard moves the current branch to hash and overwrites tracked files in
// the working tree.
func (r *Repository) ResetHard(hash plumbing.Hash) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return errors.Wrap(err, errors.ErrRepoOpen, "repository has no working tree")
	}
	if _, ok, err := r.Head(); err != nil {
		return err
	} else if !ok {
		// An unborn branch has no ref for reset to move.
		branch, err := r.CurrentBranch()
		if err != nil {
			return err
		}
		ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), hash)
		if err := r.repo.Storer.SetReference(ref); err != nil {
			return errors.Wrapf(err, errors.ErrRepoState, "failed to create %s", branch)
		}
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: hash, Mode: gogit.HardReset}); err != nil {
		return errors.Wrapf(err, errors.ErrRepoState, "failed to reset to %s", hash)
	}
	return nil
}
