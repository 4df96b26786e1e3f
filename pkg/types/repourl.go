package types

import (
	"strings"

	"github.com/arthur-debert/sdfm/pkg/errors"
)

// RepoURL is the remote a dotfile repository syncs with. The concrete types
// are SSHURL and HTTPSURL.
type RepoURL interface {
	String() string
	isRepoURL()
}

// SSHURL is an scp-like SSH remote such as git@github.com:user/dotfiles.git.
type SSHURL string

func (u SSHURL) String() string { return string(u) }
func (SSHURL) isRepoURL()       {}

// User returns the login name embedded in the URL, "git" when absent.
func (u SSHURL) User() string {
	if at := strings.Index(string(u), "@"); at > 0 {
		return string(u)[:at]
	}
	return "git"
}

// HTTPSURL is an https:// remote. It is accepted by configuration but the
// transport does not implement it.
type HTTPSURL string

func (u HTTPSURL) String() string { return string(u) }
func (HTTPSURL) isRepoURL()       {}

// ParseRepoURL classifies raw by its literal prefix.
func ParseRepoURL(raw string) (RepoURL, error) {
	switch {
	case strings.HasPrefix(raw, "git@"):
		return SSHURL(raw), nil
	case strings.HasPrefix(raw, "https://"):
		return HTTPSURL(raw), nil
	default:
		return nil, errors.Newf(errors.ErrConfigInvalid,
			"invalid repo URL format (neither SSH nor HTTPS): %s", raw).
			WithDetail("url", raw)
	}
}
