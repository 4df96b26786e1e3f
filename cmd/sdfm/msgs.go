package sdfm

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "A simple dotfile manager"
	MsgInitShort    = "Clone the dotfile repository and write the manifest"
	MsgSyncShort    = "Mirror tracked files and push them to the remote"
	MsgPullShort    = "Bring remote changes into the repository and live files"
	MsgTrackShort   = "Add a file to the manifest"
	MsgStatusShort  = "Show the link state of tracked files"
	MsgEditShort    = "Open the manifest in $EDITOR"
	MsgTopicsShort  = "Display available documentation topics"
	MsgTopicsLong   = "Display a list of all available help topics, or render one of them."
	MsgVersionShort = "Print version information"

	// Status messages
	MsgManifestWritten = "Wrote manifest to %s\n"
	MsgManifestKept    = "Keeping existing manifest at %s\n"
	MsgInitialized     = "Initialized %s on branch %s\n"
	MsgTracked         = "Tracking %s as %s/%s\n"
	MsgAlreadyTracked  = "%s is already tracked\n"
	MsgAvailableTopics = "Available topics:"
	MsgTopicItem       = "  %s\n"
	MsgVersionFormat   = "sdfm version %s\n  commit: %s\n  built:  %s\n"

	// Exit status descriptions
	MsgExitOK       = "everything synced"
	MsgExitFailure  = "the cycle failed, nothing was pushed"
	MsgExitConflict = "local and remote histories diverged, rerun with --force to overwrite"
	MsgExitPartial  = "synced, but some dotfiles were skipped"

	// Error messages
	MsgErrNoCommand    = "no command specified"
	MsgErrUnknownTopic = "unknown topic %q"
	MsgErrNotAFile     = "%s is not a regular file"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagBranch   = "Branch to sync with (overrides target_branch)"
	MsgFlagForce    = "Overwrite the other side when histories have diverged"
	MsgFlagSkipDiff = "Skip the ancestry check before pushing or pulling"
	MsgFlagNoEdit   = "Do not open the manifest in an editor"
	MsgFlagApp      = "Application the file belongs to (default derived from the path)"
	MsgFlagName     = "Entry name within the application (default the file name)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/pull-long.txt
	msgPullLongRaw string
	MsgPullLong    = strings.TrimSpace(msgPullLongRaw)

	//go:embed msgs/track-long.txt
	msgTrackLongRaw string
	MsgTrackLong    = strings.TrimSpace(msgTrackLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
