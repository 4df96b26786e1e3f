// Package types defines the core types and interfaces used throughout sdfm.
// This includes the closed sum types for repository locations and remote URLs,
// the tracked dotfile model (Application, DotfileEntry) and the FS interface
// the rest of the engine performs its I/O through.
package types
