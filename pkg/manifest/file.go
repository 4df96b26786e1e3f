package manifest

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/logging"
	"github.com/arthur-debert/sdfm/pkg/paths"
	"github.com/arthur-debert/sdfm/pkg/types"
)

// Load reads and parses the manifest at path.
func Load(fs types.FS, path string) ([]Line, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "manifest not found at %s", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrManifestRead, "failed to read manifest %s", path).
			WithDetail("path", path)
	}
	return Parse(string(data)), nil
}

// Save writes lines to path, creating the parent directory when needed.
func Save(fs types.FS, path string, lines []Line) error {
	return write(fs, path, Format(lines))
}

// SaveApplications writes the canonical serialization of the resolved
// entries of apps to path.
func SaveApplications(fs types.FS, path string, apps []types.Application) error {
	return write(fs, path, Serialize(FilterResolved(apps)))
}

func write(fs types.FS, path, text string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create manifest directory").
			WithDetail("path", filepath.Dir(path))
	}
	if err := fs.WriteFile(path, []byte(text), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite, "failed to write manifest %s", path).
			WithDetail("path", path)
	}
	return nil
}

// Resolve re-checks every live path against fs. Paths that are relative,
// missing or unreadable become unresolved; they are not errors. A leading
// ~ is expanded.
func Resolve(fs types.FS, apps []types.Application) []types.Application {
	logger := logging.GetLogger("manifest.resolve")

	out := make([]types.Application, 0, len(apps))
	for _, app := range apps {
		resolved := types.Application{Name: app.Name, Dotfiles: make([]types.DotfileEntry, 0, len(app.Dotfiles))}
		for _, d := range app.Dotfiles {
			live := paths.ExpandHome(d.LivePath)
			d.LivePath = ""
			switch {
			case live == "":
			case !filepath.IsAbs(live):
				logger.Warn().Str("app", app.Name).Str("name", d.Name).Str("path", live).
					Msg("Manifest path is not absolute, skipping")
			default:
				info, err := fs.Stat(live)
				if err != nil {
					logger.Warn().Err(err).Str("app", app.Name).Str("name", d.Name).Str("path", live).
						Msg("Tracked file not readable, skipping")
				} else if info.IsDir() {
					logger.Warn().Str("app", app.Name).Str("name", d.Name).Str("path", live).
						Msg("Tracked path is a directory, skipping")
				} else {
					d.LivePath = filepath.Clean(live)
				}
			}
			resolved.Dotfiles = append(resolved.Dotfiles, d)
		}
		out = append(out, resolved)
	}
	return out
}

// Expand expands a leading ~ in every live path without checking that the
// files exist. Pulling uses it so files missing on this device can be
// created from the repository.
func Expand(apps []types.Application) []types.Application {
	out := make([]types.Application, 0, len(apps))
	for _, app := range apps {
		expanded := types.Application{Name: app.Name, Dotfiles: make([]types.DotfileEntry, 0, len(app.Dotfiles))}
		for _, d := range app.Dotfiles {
			live := paths.ExpandHome(d.LivePath)
			if live != "" && filepath.IsAbs(live) {
				d.LivePath = filepath.Clean(live)
			} else {
				d.LivePath = ""
			}
			expanded.Dotfiles = append(expanded.Dotfiles, d)
		}
		out = append(out, expanded)
	}
	return out
}
