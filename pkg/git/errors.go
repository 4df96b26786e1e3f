package git

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/arthur-debert/sdfm/pkg/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

func isReferenceNotFound(err error) bool {
	return stderrors.Is(err, plumbing.ErrReferenceNotFound) ||
		stderrors.Is(err, gogit.NoMatchingRefSpecError{})
}

// classify maps go-git failures onto sdfm error codes.
func classify(err error, op string) error {
	switch {
	case stderrors.Is(err, transport.ErrAuthenticationRequired),
		stderrors.Is(err, transport.ErrAuthorizationFailed):
		return errors.Wrapf(err, errors.ErrAuth, "%s: authentication failed", op)
	case stderrors.Is(err, gogit.ErrNonFastForwardUpdate),
		strings.Contains(err.Error(), "non-fast-forward"),
		strings.Contains(err.Error(), "rejected"):
		return errors.Wrapf(err, errors.ErrPushRejected, "%s: remote rejected the update", op)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrapf(err, errors.ErrTransport, "%s interrupted", op)
	default:
		return errors.Wrapf(err, errors.ErrTransport, "%s failed", op)
	}
}
