// Package manifest reads and writes the manifest: the human-editable, line
// oriented record of which live paths sdfm tracks.
//
// The grammar is:
//
//	# <application>
//	## <dotfile name>
//	/absolute/live/path
//
// Any other line starting with '#', and blank lines, are comments. They are
// ignored when building applications but preserved by Parse/Format so that
// edits made through Append keep the user's annotations intact.
package manifest
