package types

import (
	"path/filepath"
	"strings"
)

// Namespace names one of the three repository subdirectories a tracked file
// is stored under.
type Namespace string

const (
	NamespaceXdgConfig    Namespace = "xdg_config"
	NamespaceHomeDir      Namespace = "homedir"
	NamespaceAbsoluteRoot Namespace = "root"
)

// Location is where a live file is stored inside the repository. It is a
// closed set: XdgConfig, HomeDir and AbsoluteRoot are the only implementations.
type Location interface {
	Namespace() Namespace
	// RepoPath is the path relative to the repository root.
	RepoPath() string
	isLocation()
}

// XdgConfig is a file below the XDG config directory. Rel is relative to it.
type XdgConfig struct {
	Rel string
}

func (XdgConfig) Namespace() Namespace { return NamespaceXdgConfig }
func (l XdgConfig) RepoPath() string   { return filepath.Join(string(NamespaceXdgConfig), l.Rel) }
func (XdgConfig) isLocation()          {}

// HomeDir is a file below the home directory. Rel is relative to it.
type HomeDir struct {
	Rel string
}

func (HomeDir) Namespace() Namespace { return NamespaceHomeDir }
func (l HomeDir) RepoPath() string   { return filepath.Join(string(NamespaceHomeDir), l.Rel) }
func (HomeDir) isLocation()          {}

// AbsoluteRoot is any other file. Path is the full absolute path, embedded
// verbatim below root/.
type AbsoluteRoot struct {
	Path string
}

func (AbsoluteRoot) Namespace() Namespace { return NamespaceAbsoluteRoot }

func (l AbsoluteRoot) RepoPath() string {
	return string(NamespaceAbsoluteRoot) + string(filepath.Separator) + strings.TrimPrefix(l.Path, string(filepath.Separator))
}

func (AbsoluteRoot) isLocation() {}
