package config

import (
	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/types"
)

// Config is the resolved sdfm configuration.
type Config struct {
	// Repo is the remote the dotfile repository syncs with.
	Repo types.RepoURL `koanf:"repo"`
	// TargetBranch is the branch commits are made on and pushed to.
	TargetBranch string `koanf:"target_branch"`
	// Remote is the name of the git remote.
	Remote string `koanf:"remote"`
	// SSHKey is the private key used for SSH remotes.
	SSHKey string `koanf:"ssh_key"`
	Commit Commit `koanf:"commit"`
}

// Commit holds the identity and message used for automatic commits.
type Commit struct {
	Author  string `koanf:"author"`
	Email   string `koanf:"email"`
	Message string `koanf:"message"`
}

// Initialized reports whether a repository has been configured.
func (c *Config) Initialized() bool {
	return c != nil && c.Repo != nil
}

// Validate checks that the configuration is complete enough to sync.
func (c *Config) Validate() error {
	if !c.Initialized() {
		return errors.New(errors.ErrConfigInvalid, "no repository configured, run `sdfm init <url>` first")
	}
	if c.TargetBranch == "" {
		return errors.New(errors.ErrConfigInvalid, "target_branch must not be empty")
	}
	if c.Remote == "" {
		return errors.New(errors.ErrConfigInvalid, "remote must not be empty")
	}
	return nil
}
