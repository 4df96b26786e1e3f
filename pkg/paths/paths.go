package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/types"
)

// Environment variable names
const (
	// EnvSdfmConfigDir overrides the sdfm config directory ($XDG_CONFIG_HOME/sdfm)
	EnvSdfmConfigDir = "SDFM_CONFIG_DIR"

	// EnvSdfmStateDir overrides the sdfm state directory ($XDG_STATE_HOME/sdfm)
	EnvSdfmStateDir = "SDFM_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed names inside the sdfm config directory. These are not user-configurable.
const (
	// SdfmDirName is the directory name for sdfm-specific files
	SdfmDirName = "sdfm"

	// ConfigFileName is the name of the TOML configuration file
	ConfigFileName = "config.toml"

	// ManifestFileName is the name of the manifest file
	ManifestFileName = "dotfiles"

	// RepoDirName is the subdirectory the dotfile repository is cloned into
	RepoDirName = "repo"

	// LogFileName is the name of the log file
	LogFileName = "sdfm.log"
)

// Paths provides centralized path management for sdfm
type Paths interface {
	HomeDir() string
	XdgConfigDir() string
	ConfigDir() string
	StateDir() string
	ConfigFilePath() string
	ManifestPath() string
	RepoDir() string
	LogFilePath() string
	Classify(path string) types.Location
}

type paths struct {
	homeDir   string
	xdgConfig string
	sdfmConf  string
	sdfmState string
}

// New creates a Paths instance from the environment.
func New() (Paths, error) {
	xdg.Reload()

	home, err := GetHomeDirectory()
	if err != nil {
		return nil, err
	}

	p := &paths{
		homeDir:   filepath.Clean(home),
		xdgConfig: filepath.Clean(xdg.ConfigHome),
	}

	if dir := os.Getenv(EnvSdfmConfigDir); dir != "" {
		p.sdfmConf = ExpandHome(dir)
	} else {
		p.sdfmConf = filepath.Join(p.xdgConfig, SdfmDirName)
	}

	if dir := os.Getenv(EnvSdfmStateDir); dir != "" {
		p.sdfmState = ExpandHome(dir)
	} else {
		p.sdfmState = filepath.Join(xdg.StateHome, SdfmDirName)
	}

	return p, nil
}

// NewWithDirs creates a Paths instance rooted at explicit directories,
// bypassing environment lookups.
func NewWithDirs(homeDir, xdgConfigDir, sdfmConfigDir string) Paths {
	return &paths{
		homeDir:   filepath.Clean(homeDir),
		xdgConfig: filepath.Clean(xdgConfigDir),
		sdfmConf:  filepath.Clean(sdfmConfigDir),
		sdfmState: filepath.Join(filepath.Clean(sdfmConfigDir), "state"),
	}
}

func (p *paths) HomeDir() string      { return p.homeDir }
func (p *paths) XdgConfigDir() string { return p.xdgConfig }

// ConfigDir returns the sdfm config directory
func (p *paths) ConfigDir() string { return p.sdfmConf }

// StateDir returns the sdfm state directory
func (p *paths) StateDir() string { return p.sdfmState }

func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.sdfmConf, ConfigFileName)
}

func (p *paths) ManifestPath() string {
	return filepath.Join(p.sdfmConf, ManifestFileName)
}

// RepoDir returns where the dotfile repository is cloned
func (p *paths) RepoDir() string {
	return filepath.Join(p.sdfmConf, RepoDirName)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.sdfmState, LogFileName)
}

// Classify maps a live path to its repository location using this
// instance's XDG config and home directories.
func (p *paths) Classify(path string) types.Location {
	return Classify(path, p.xdgConfig, p.homeDir)
}

// GetHomeDirectory returns the user's home directory
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := GetHomeDirectory()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user forms are not supported
	return path
}

// ContainsPath reports whether child is parent itself or lies below it,
// comparing whole path components.
func ContainsPath(parent, child string) bool {
	parent = filepath.Clean(parent)
	child = filepath.Clean(child)
	if parent == child {
		return true
	}
	if parent == string(filepath.Separator) {
		return strings.HasPrefix(child, parent)
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}
