// Package catalog is the static lookup table of well-known application
// dotfiles and the probe that resolves them on the current device.
package catalog

import (
	_ "embed"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/logging"
	"github.com/arthur-debert/sdfm/pkg/types"
	"gopkg.in/yaml.v3"
)

//go:embed embedded/known.yaml
var knownApplications []byte

const xdgConfigVar = "$XDG_CONFIG_HOME"

type document struct {
	Applications []types.Application `yaml:"applications"`
}

// Parse decodes a catalog document.
func Parse(data []byte) ([]types.Application, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to parse application catalog")
	}
	for i := range doc.Applications {
		for j := range doc.Applications[i].Dotfiles {
			doc.Applications[i].Dotfiles[j].Application = doc.Applications[i].Name
		}
	}
	return doc.Applications, nil
}

// KnownApplications returns the built-in catalog with every entry unresolved.
func KnownApplications() []types.Application {
	apps, err := Parse(knownApplications)
	if err != nil {
		// The embedded catalog is covered by tests.
		panic(err)
	}
	return apps
}

// Probe resolves each dotfile in apps to the first candidate path that
// exists in fs. Entries with no existing candidate stay unresolved.
func Probe(fs types.FS, apps []types.Application, xdgConfigDir, homeDir string) []types.Application {
	logger := logging.GetLogger("catalog.probe")

	out := make([]types.Application, len(apps))
	for i, app := range apps {
		out[i] = types.Application{Name: app.Name, Dotfiles: make([]types.DotfileEntry, len(app.Dotfiles))}
		for j, d := range app.Dotfiles {
			d.LivePath = ""
			for _, candidate := range d.Candidates {
				path := expand(candidate, xdgConfigDir, homeDir)
				if info, err := fs.Stat(path); err == nil && !info.IsDir() {
					d.LivePath = path
					break
				}
			}
			logger.Debug().
				Str("app", app.Name).
				Str("name", d.Name).
				Str("path", d.LivePath).
				Bool("found", d.Resolved()).
				Msg("Probed dotfile")
			out[i].Dotfiles[j] = d
		}
	}
	return out
}

func expand(candidate, xdgConfigDir, homeDir string) string {
	switch {
	case strings.HasPrefix(candidate, xdgConfigVar):
		return filepath.Join(xdgConfigDir, strings.TrimPrefix(candidate, xdgConfigVar))
	case candidate == "~":
		return homeDir
	case strings.HasPrefix(candidate, "~/"):
		return filepath.Join(homeDir, candidate[2:])
	default:
		return filepath.Clean(candidate)
	}
}
