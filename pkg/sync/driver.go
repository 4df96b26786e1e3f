package sync

import (
	"context"

	"github.com/arthur-debert/sdfm/pkg/config"
	"github.com/arthur-debert/sdfm/pkg/datastore"
	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/git"
	"github.com/arthur-debert/sdfm/pkg/logging"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"
)

// Driver runs sync cycles for one device.
type Driver struct {
	cfg    *config.Config
	store  datastore.DataStore
	client *git.Client
}

// NewDriver creates a Driver. The repository lives at store.RepoRoot().
func NewDriver(cfg *config.Config, store datastore.DataStore, client *git.Client) *Driver {
	return &Driver{cfg: cfg, store: store, client: client}
}

// Initialize clones url into the repository directory on targetBranch.
func (d *Driver) Initialize(ctx context.Context, url types.RepoURL, targetBranch string) error {
	logger := logging.GetLogger("sync.initialize")

	if err := requireSSH(url); err != nil {
		return err
	}
	if targetBranch == "" {
		return errors.New(errors.ErrConfigInvalid, "target branch must not be empty")
	}

	if _, err := d.client.Clone(ctx, url, d.store.RepoRoot(), targetBranch); err != nil {
		return err
	}

	logger.Info().
		Str("url", url.String()).
		Str("branch", targetBranch).
		Str("dir", d.store.RepoRoot()).
		Msg("Repository initialized")
	return nil
}

// Sync runs one cycle over apps. The returned Result is never nil. The error
// is non-nil when the cycle ended in conflict or failure; entry failures
// alone are reported in Result.Failures.
func (d *Driver) Sync(ctx context.Context, apps []types.Application, opts Options) (*Result, error) {
	result := &Result{Branch: opts.TargetBranch}
	if result.Branch == "" {
		result.Branch = d.cfg.TargetBranch
	}

	logger := logging.GetLogger("sync.driver").With().
		Str("direction", opts.Direction.String()).
		Str("branch", result.Branch).
		Bool("force", opts.Force).
		Bool("skip_diff", opts.SkipDiff).
		Logger()
	defer logging.LogOperationStart(logger, "sync")()

	enter := func(s State) {
		result.enter(s)
		logger.Debug().Str("state", string(s)).Msg("Sync state")
	}
	fail := func(err error) (*Result, error) {
		result.Err = err
		if errors.IsConflict(err) {
			result.Status = StatusConflict
			logger.Warn().Err(err).Msg("Sync stopped on conflict")
		} else {
			result.Status = StatusFailed
			enter(StateFailed)
			logger.Error().Err(err).Msg("Sync failed")
		}
		return result, err
	}

	enter(StateUninitialized)

	if err := d.cfg.Validate(); err != nil {
		return fail(err)
	}
	if err := requireSSH(d.cfg.Repo); err != nil {
		return fail(err)
	}

	repo, err := d.client.Open(d.cfg.Repo, d.store.RepoRoot())
	if err != nil {
		return fail(err)
	}
	enter(StateCloned)

	if err := repo.Checkout(result.Branch); err != nil {
		return fail(err)
	}

	remote, hasRemote, err := repo.Fetch(ctx, result.Branch)
	if err != nil {
		return fail(err)
	}

	result.Failures = d.store.MaterializeAll(apps)

	pending, err := repo.StageAll()
	if err != nil {
		return fail(err)
	}
	enter(StateStaged)

	discarded := false
	if pending && opts.Direction == Pull && hasRemote {
		keep, err := d.keepLocalChanges(repo, opts, result, remote, logger)
		if err != nil {
			return fail(err)
		}
		discarded, pending = !keep, keep
	}

	if pending {
		hash, err := repo.Commit(d.cfg.Commit.Message, git.Signature{
			Name:  d.cfg.Commit.Author,
			Email: d.cfg.Commit.Email,
		})
		if err != nil {
			return fail(err)
		}
		result.Commit = hash.String()
		enter(StateCommitted)
	} else {
		logger.Debug().Msg("Nothing to commit")
	}

	local, hasLocal, err := repo.Head()
	if err != nil {
		return fail(err)
	}

	switch opts.Direction {
	case Pull:
		err = d.pull(repo, apps, opts, result, local, hasLocal, remote, hasRemote, discarded, logger)
		if err == nil && result.Pulled {
			enter(StatePulled)
		}
	default:
		err = d.push(ctx, repo, opts, result, local, hasLocal, remote, hasRemote, logger)
		if err == nil && result.Pushed {
			enter(StatePushed)
		}
	}
	if err != nil {
		return fail(err)
	}

	enter(StateSynced)
	result.Status = StatusSynced
	logger.Info().
		Str("commit", result.Commit).
		Bool("pushed", result.Pushed).
		Bool("pulled", result.Pulled).
		Int("failures", len(result.Failures)).
		Msg("Sync complete")
	return result, nil
}

func (d *Driver) push(ctx context.Context, repo *git.Repository, opts Options, result *Result,
	local plumbing.Hash, hasLocal bool, remote plumbing.Hash, hasRemote bool, logger zerolog.Logger) error {

	if !hasLocal {
		logger.Info().Msg("No local history to push")
		return nil
	}
	if hasRemote && remote == local {
		logger.Debug().Msg("Remote already up to date")
		return nil
	}

	if hasRemote && !opts.Force && !opts.SkipDiff {
		ok, err := repo.IsAncestor(remote, local)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Newf(errors.ErrConflict,
				"remote %s has commits that are not present locally, pull first or use --force", result.Branch).
				WithDetail("local", local.String()).
				WithDetail("remote", remote.String())
		}
	}

	if err := repo.Push(ctx, result.Branch, opts.Force); err != nil {
		return err
	}
	result.Pushed = true
	return nil
}

// keepLocalChanges decides whether a pull commits live edits before
// exchanging with remote. Edits are committed only when the local branch is
// already ahead of remote. Otherwise the reset would overwrite them, which is
// a conflict unless remote already holds the same content or Force/SkipDiff
// is set.
func (d *Driver) keepLocalChanges(repo *git.Repository, opts Options, result *Result,
	remote plumbing.Hash, logger zerolog.Logger) (bool, error) {

	local, hasLocal, err := repo.Head()
	if err != nil {
		return false, err
	}
	if hasLocal && local != remote {
		ahead, err := repo.IsAncestor(remote, local)
		if err != nil {
			return false, err
		}
		if ahead {
			return true, nil
		}
	}

	same, err := repo.PendingMatches(remote)
	if err != nil {
		return false, err
	}
	switch {
	case same:
		logger.Debug().Msg("Local changes already on the remote")
		return false, nil
	case opts.Force || opts.SkipDiff:
		logger.Warn().Msg("Discarding local changes in favor of the remote")
		return false, nil
	}

	return false, errors.Newf(errors.ErrConflict,
		"live files on %s have changes that are not on the remote, sync first or use --force", result.Branch).
		WithDetail("remote", remote.String())
}

func (d *Driver) pull(repo *git.Repository, apps []types.Application, opts Options, result *Result,
	local plumbing.Hash, hasLocal bool, remote plumbing.Hash, hasRemote bool, discarded bool, logger zerolog.Logger) error {

	if !hasRemote {
		logger.Info().Msg("Remote branch does not exist, nothing to pull")
		return nil
	}

	moved := !hasLocal || local != remote
	reset := moved || discarded
	if moved && hasLocal && !opts.Force && !opts.SkipDiff {
		ahead, err := repo.IsAncestor(remote, local)
		if err != nil {
			return err
		}
		ff, err := repo.IsAncestor(local, remote)
		if err != nil {
			return err
		}
		switch {
		case ahead:
			logger.Info().Msg("Local history is ahead of the remote, nothing to pull")
			reset = false
		case !ff:
			return errors.Newf(errors.ErrConflict,
				"local %s has commits that are not on the remote, sync first or use --force", result.Branch).
				WithDetail("local", local.String()).
				WithDetail("remote", remote.String())
		}
	}

	if reset {
		if err := repo.ResetHard(remote); err != nil {
			return err
		}
		result.Pulled = moved
	}

	targets := opts.Restore
	if targets == nil {
		targets = apps
	}
	result.Failures = append(result.Failures, d.store.RestoreAll(targets)...)
	return nil
}

func requireSSH(url types.RepoURL) error {
	switch url.(type) {
	case types.SSHURL:
		return nil
	case types.HTTPSURL:
		return errors.Newf(errors.ErrNotImplemented, "HTTPS remotes are not supported yet: %s", url).
			WithDetail("url", url.String())
	default:
		return errors.New(errors.ErrConfigInvalid, "no repository configured")
	}
}
