// Package paths provides centralized path handling for sdfm.
// It implements XDG Base Directory specification compliance, provides a
// consistent API for the locations sdfm owns (config file, manifest,
// repository clone, log file, SSH key) and classifies live paths into
// the repository namespaces.
package paths
