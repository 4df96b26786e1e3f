package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sdfm/pkg/types"
)

// Classify maps an absolute live path to the repository namespace it is
// stored under. The XDG config directory is checked before the home
// directory, so files under a config dir nested in home classify as XdgConfig.
// Anything else falls back to AbsoluteRoot.
//
// Only paths strictly below a directory belong to it. The home directory
// itself classifies as AbsoluteRoot. The XDG config directory itself
// classifies as HomeDir (e.g. ".config") when it sits in home, and as
// AbsoluteRoot otherwise.
//
// path must be absolute; a relative path is a programming error and panics.
func Classify(path, xdgConfigDir, homeDir string) types.Location {
	if !filepath.IsAbs(path) {
		panic(fmt.Sprintf("paths.Classify: path %q is not absolute", path))
	}

	clean := filepath.Clean(path)

	if rel, ok := stripDir(clean, xdgConfigDir); ok {
		return types.XdgConfig{Rel: rel}
	}
	if rel, ok := stripDir(clean, homeDir); ok {
		return types.HomeDir{Rel: rel}
	}
	return types.AbsoluteRoot{Path: clean}
}

// stripDir returns path relative to dir when path lies strictly below dir.
func stripDir(path, dir string) (string, bool) {
	if dir == "" {
		return "", false
	}
	dir = filepath.Clean(dir)
	if path == dir || !ContainsPath(dir, path) {
		return "", false
	}
	rel := strings.TrimPrefix(path, dir)
	return strings.TrimPrefix(rel, string(filepath.Separator)), true
}
