package git

import (
	stderrors "errors"
	"os"

	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/logging"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/go-git/go-git/v5/plumbing/transport"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"golang.org/x/crypto/ssh"
)

// EnvSSHPassphrase holds the passphrase for an encrypted SSH key.
const EnvSSHPassphrase = "SSH_PASSPHRASE"

// CredentialProvider supplies authentication for a remote.
type CredentialProvider interface {
	Auth(url types.RepoURL) (transport.AuthMethod, error)
}

// NoAuth is a CredentialProvider for remotes that need no credentials, such
// as local paths.
type NoAuth struct{}

func (NoAuth) Auth(types.RepoURL) (transport.AuthMethod, error) { return nil, nil }

// SSHKeyProvider authenticates SSH remotes with a private key file.
type SSHKeyProvider struct {
	KeyPath    string
	Passphrase string
}

// NewSSHKeyProvider uses the key at keyPath and the passphrase from
// SSH_PASSPHRASE, if set.
func NewSSHKeyProvider(keyPath string) *SSHKeyProvider {
	return &SSHKeyProvider{KeyPath: keyPath, Passphrase: os.Getenv(EnvSSHPassphrase)}
}

func (p *SSHKeyProvider) Auth(url types.RepoURL) (transport.AuthMethod, error) {
	sshURL, ok := url.(types.SSHURL)
	if !ok {
		return nil, errors.Newf(errors.ErrNotImplemented, "only SSH remotes are supported, got %s", url).
			WithDetail("url", url.String())
	}

	pem, err := os.ReadFile(p.KeyPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrAuth, "cannot read SSH key %s", p.KeyPath).
			WithDetail("path", p.KeyPath)
	}

	encrypted, err := KeyEncrypted(pem)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrAuth, "%s is not a valid SSH private key", p.KeyPath).
			WithDetail("path", p.KeyPath)
	}
	if encrypted && p.Passphrase == "" {
		return nil, errors.Newf(errors.ErrPassphraseRequired,
			"SSH key %s is encrypted, set %s to its passphrase", p.KeyPath, EnvSSHPassphrase).
			WithDetail("path", p.KeyPath)
	}

	auth, err := gitssh.NewPublicKeys(sshURL.User(), pem, p.Passphrase)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrAuth, "cannot use SSH key %s", p.KeyPath).
			WithDetail("path", p.KeyPath)
	}

	logger := logging.GetLogger("git.auth")
	logger.Debug().
		Str("user", sshURL.User()).
		Str("key", p.KeyPath).
		Bool("encrypted", encrypted).
		Msg("Loaded SSH key")
	return auth, nil
}

// KeyEncrypted reports whether a PEM encoded private key needs a passphrase.
func KeyEncrypted(pem []byte) (bool, error) {
	_, err := ssh.ParseRawPrivateKey(pem)
	if err == nil {
		return false, nil
	}
	var missing *ssh.PassphraseMissingError
	if stderrors.As(err, &missing) {
		return true, nil
	}
	return false, err
}
