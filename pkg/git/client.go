package git

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/logging"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Client opens and clones repositories.
type Client struct {
	creds    CredentialProvider
	remote   string
	endpoint func(types.RepoURL) string
}

// Option configures a Client.
type Option func(*Client)

// WithRemoteName sets the remote name, "origin" by default.
func WithRemoteName(name string) Option {
	return func(c *Client) { c.remote = name }
}

// WithEndpoint rewrites the URL handed to the transport. Tests use it to
// point SSH URLs at local bare repositories.
func WithEndpoint(fn func(types.RepoURL) string) Option {
	return func(c *Client) { c.endpoint = fn }
}

// NewClient creates a Client using creds for every remote operation.
func NewClient(creds CredentialProvider, opts ...Option) *Client {
	c := &Client{
		creds:    creds,
		remote:   gogit.DefaultRemoteName,
		endpoint: func(u types.RepoURL) string { return u.String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clone clones url into dir with branch checked out. An empty remote is
// initialized locally with the remote configured and HEAD on branch. A
// remote without branch is cloned at its default HEAD and branch is created
// from it.
func (c *Client) Clone(ctx context.Context, url types.RepoURL, dir, branch string) (*Repository, error) {
	logger := logging.GetLogger("git.clone")

	if IsRepository(dir) {
		return nil, errors.Newf(errors.ErrRepoState, "a repository already exists at %s", dir).
			WithDetail("path", dir)
	}

	auth, err := c.creds.Auth(url)
	if err != nil {
		return nil, err
	}
	endpoint := c.endpoint(url)

	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dir))
	}

	logger.Info().Str("url", url.String()).Str("dir", dir).Str("branch", branch).Msg("Cloning repository")

	opts := &gogit.CloneOptions{
		URL:           endpoint,
		Auth:          auth,
		RemoteName:    c.remote,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
	}
	repo, err := gogit.PlainCloneContext(ctx, dir, false, opts)

	switch {
	case err == nil:
	case stderrors.Is(err, transport.ErrEmptyRemoteRepository):
		logger.Info().Str("url", url.String()).Msg("Remote is empty, initializing locally")
		return c.initEmpty(dir, endpoint, branch, auth)
	case isReferenceNotFound(err):
		logger.Info().Str("branch", branch).Msg("Branch not on remote, cloning default branch")
		opts.ReferenceName = ""
		opts.SingleBranch = false
		repo, err = gogit.PlainCloneContext(ctx, dir, false, opts)
		if err != nil {
			return nil, classify(err, "clone")
		}
	default:
		return nil, classify(err, "clone")
	}

	r := newRepository(repo, dir, c.remote, auth)
	if err := r.Checkout(branch); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Client) initEmpty(dir, endpoint, branch string, auth transport.AuthMethod) (*Repository, error) {
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRepoOpen, "failed to initialize %s", dir)
	}
	if _, err := repo.CreateRemote(&config.RemoteConfig{Name: c.remote, URLs: []string{endpoint}}); err != nil {
		return nil, errors.Wrap(err, errors.ErrRepoState, "failed to configure remote")
	}
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	if err := repo.Storer.SetReference(head); err != nil {
		return nil, errors.Wrap(err, errors.ErrRepoState, "failed to set HEAD")
	}
	return newRepository(repo, dir, c.remote, auth), nil
}

// Open opens the repository at dir, authenticating as url for later
// network operations.
func (c *Client) Open(url types.RepoURL, dir string) (*Repository, error) {
	auth, err := c.creds.Auth(url)
	if err != nil {
		return nil, err
	}

	wt := osfs.New(dir)
	dot, err := wt.Chroot(gogit.GitDirName)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRepoOpen, "cannot open %s", dir)
	}
	storage := filesystem.NewStorage(dot, cache.NewObjectLRUDefault())

	repo, err := gogit.Open(storage, wt)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRepoOpen, "no repository at %s, run `sdfm init` first", dir).
			WithDetail("path", dir)
	}
	return newRepository(repo, dir, c.remote, auth), nil
}

// IsRepository reports whether dir holds a git repository.
func IsRepository(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, gogit.GitDirName))
	return err == nil && info.IsDir()
}
