// Package config handles configuration management for sdfm.
// Configuration is layered from embedded defaults, the user's config.toml,
// SDFM_* environment variables and command-line overrides, in that order.
package config
