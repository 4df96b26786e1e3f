package datastore

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/logging"
	"github.com/arthur-debert/sdfm/pkg/paths"
	"github.com/arthur-debert/sdfm/pkg/types"
)

const tempSuffix = ".sdfm-tmp"

type filesystemDataStore struct {
	fs       types.FS
	paths    paths.Paths
	repoRoot string
}

// New creates a DataStore rooted at the repository directory from p.
func New(fs types.FS, p paths.Paths) DataStore {
	return NewAt(fs, p, p.RepoDir())
}

// NewAt creates a DataStore rooted at an explicit repository directory.
func NewAt(fs types.FS, p paths.Paths, repoRoot string) DataStore {
	return &filesystemDataStore{
		fs:       fs,
		paths:    p,
		repoRoot: filepath.Clean(repoRoot),
	}
}

func (s *filesystemDataStore) RepoRoot() string { return s.repoRoot }

func (s *filesystemDataStore) Locate(livePath string) string {
	loc := s.paths.Classify(livePath)
	return filepath.Join(s.repoRoot, filepath.FromSlash(loc.RepoPath()))
}

func (s *filesystemDataStore) Materialize(livePath string) (string, error) {
	logger := logging.GetLogger("datastore.materialize")
	dest := s.Locate(livePath)

	liveInfo, err := s.fs.Stat(livePath)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read live file %s", livePath).
			WithDetail("path", livePath)
	}
	if liveInfo.IsDir() {
		return "", errors.Newf(errors.ErrFileAccess, "live path %s is a directory", livePath).
			WithDetail("path", livePath)
	}

	if err := s.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", dest).
			WithDetail("path", filepath.Dir(dest))
	}

	// A symlinked live file would be linked as the symlink itself.
	if linfo, err := s.fs.Lstat(livePath); err == nil && linfo.Mode()&fs.ModeSymlink != 0 {
		logger.Debug().Str("live", livePath).Msg("Live path is a symlink, copying content")
		return dest, s.copyInto(livePath, dest, liveInfo.Mode().Perm())
	}

	destInfo, err := s.fs.Lstat(dest)
	switch {
	case err == nil:
		if os.SameFile(liveInfo, destInfo) {
			logger.Trace().Str("live", livePath).Str("repo", dest).Msg("Already linked")
			return dest, nil
		}
		return dest, s.replace(livePath, dest, liveInfo.Mode().Perm())
	case stderrors.Is(err, fs.ErrNotExist):
	default:
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", dest).
			WithDetail("path", dest)
	}

	if err := s.fs.Link(livePath, dest); err != nil {
		if !linkUnsupported(err) {
			return "", errors.Wrapf(err, errors.ErrLinkCreate, "failed to link %s", livePath).
				WithDetail("path", livePath)
		}
		logger.Debug().Err(err).Str("live", livePath).Msg("Hard link unavailable, copying content")
		return dest, s.copyInto(livePath, dest, liveInfo.Mode().Perm())
	}

	logger.Debug().Str("live", livePath).Str("repo", dest).Msg("Linked dotfile")
	return dest, nil
}

// replace swaps an existing repository file for a link to livePath.
func (s *filesystemDataStore) replace(livePath, dest string, perm fs.FileMode) error {
	logger := logging.GetLogger("datastore.materialize")
	tmp := dest + tempSuffix
	_ = s.fs.Remove(tmp)

	if err := s.fs.Link(livePath, tmp); err != nil {
		if !linkUnsupported(err) {
			return errors.Wrapf(err, errors.ErrLinkCreate, "failed to link %s", livePath).
				WithDetail("path", livePath)
		}
		logger.Debug().Err(err).Str("live", livePath).Msg("Hard link unavailable, copying content")
		return s.copyInto(livePath, dest, perm)
	}

	if err := s.fs.Rename(tmp, dest); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrLinkCreate, "failed to replace %s", dest).
			WithDetail("path", dest)
	}

	logger.Debug().Str("live", livePath).Str("repo", dest).Msg("Relinked dotfile")
	return nil
}

// copyInto writes the content of src to dest unless dest already holds it.
func (s *filesystemDataStore) copyInto(src, dest string, perm fs.FileMode) error {
	data, err := s.fs.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src).
			WithDetail("path", src)
	}
	if current, err := s.fs.ReadFile(dest); err == nil && bytes.Equal(current, data) {
		return nil
	}
	return s.writeAtomic(dest, data, perm)
}

func (s *filesystemDataStore) writeAtomic(dest string, data []byte, perm fs.FileMode) error {
	tmp := dest + tempSuffix
	if err := s.fs.WriteFile(tmp, data, perm); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", dest).
			WithDetail("path", dest)
	}
	if err := s.fs.Rename(tmp, dest); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to replace %s", dest).
			WithDetail("path", dest)
	}
	return nil
}

func (s *filesystemDataStore) MaterializeAll(apps []types.Application) []EntryFailure {
	return s.each(apps, "Materialize", func(live string) error {
		_, err := s.Materialize(live)
		return err
	})
}

func (s *filesystemDataStore) Restore(livePath string) (bool, error) {
	src := s.Locate(livePath)

	srcInfo, err := s.fs.Stat(src)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileNotFound, "%s is not in the repository", livePath).
			WithDetail("path", src)
	}
	if liveInfo, err := s.fs.Stat(livePath); err == nil && os.SameFile(srcInfo, liveInfo) {
		return false, nil
	}

	data, err := s.fs.ReadFile(src)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src).
			WithDetail("path", src)
	}
	if current, err := s.fs.ReadFile(livePath); err == nil && bytes.Equal(current, data) {
		return false, nil
	}

	if err := s.fs.MkdirAll(filepath.Dir(livePath), 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", livePath).
			WithDetail("path", filepath.Dir(livePath))
	}
	// Written in place so other links to the live inode see the change.
	if err := s.fs.WriteFile(livePath, data, srcInfo.Mode().Perm()); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", livePath).
			WithDetail("path", livePath)
	}

	logger := logging.GetLogger("datastore.restore")
	logger.Debug().
		Str("live", livePath).
		Str("repo", src).
		Msg("Restored dotfile")
	return true, nil
}

func (s *filesystemDataStore) RestoreAll(apps []types.Application) []EntryFailure {
	return s.each(apps, "Restore", func(live string) error {
		_, err := s.Restore(live)
		return err
	})
}

func (s *filesystemDataStore) each(apps []types.Application, op string, fn func(string) error) []EntryFailure {
	logger := logging.GetLogger("datastore")

	var failures []EntryFailure
	for _, entry := range types.Entries(apps) {
		if !entry.Resolved() {
			logger.Debug().Str("app", entry.Application).Str("name", entry.Name).Msg("Skipping unresolved entry")
			continue
		}
		if err := fn(entry.LivePath); err != nil {
			logger.Warn().
				Err(err).
				Str("op", op).
				Str("app", entry.Application).
				Str("name", entry.Name).
				Msg("Entry failed")
			failures = append(failures, EntryFailure{Entry: entry, Err: err})
		}
	}
	return failures
}

// linkUnsupported reports whether a hard link failure should fall back to
// copying.
func linkUnsupported(err error) bool {
	return stderrors.Is(err, stderrors.ErrUnsupported) ||
		stderrors.Is(err, syscall.EXDEV) ||
		stderrors.Is(err, syscall.EPERM) ||
		stderrors.Is(err, syscall.EMLINK)
}
