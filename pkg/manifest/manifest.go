package manifest

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sdfm/pkg/types"
)

// Kind identifies the role of a manifest line.
type Kind int

const (
	KindComment Kind = iota
	KindApplication
	KindEntry
	KindPath
)

func (k Kind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindApplication:
		return "application"
	case KindEntry:
		return "entry"
	case KindPath:
		return "path"
	default:
		return "unknown"
	}
}

const (
	applicationMarker = "# "
	entryMarker       = "## "

	// MiscApplication collects path lines written without an application header.
	MiscApplication = "misc"
)

// Line is a single manifest line. Text holds the raw line for comments, the
// name for headers and the live path for path lines.
type Line struct {
	Kind Kind
	Text string
}

func Comment(text string) Line           { return Line{Kind: KindComment, Text: text} }
func ApplicationHeader(name string) Line { return Line{Kind: KindApplication, Text: name} }
func EntryHeader(name string) Line       { return Line{Kind: KindEntry, Text: name} }
func PathLine(path string) Line          { return Line{Kind: KindPath, Text: path} }

// String renders the line as it appears in the manifest file.
func (l Line) String() string {
	switch l.Kind {
	case KindApplication:
		return applicationMarker + l.Text
	case KindEntry:
		return entryMarker + l.Text
	default:
		return l.Text
	}
}

// Parse splits text into manifest lines. It never fails: anything that is
// not a header or a comment is taken as a path.
func Parse(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	lines := make([]Line, 0, len(raw))
	for _, r := range raw {
		lines = append(lines, parseLine(strings.TrimSuffix(r, "\r")))
	}
	return lines
}

func parseLine(raw string) Line {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return Comment(raw)
	case strings.HasPrefix(raw, entryMarker):
		if name := raw[len(entryMarker):]; isHeaderName(name) {
			return EntryHeader(name)
		}
		return Comment(raw)
	case strings.HasPrefix(raw, applicationMarker):
		if name := raw[len(applicationMarker):]; isHeaderName(name) {
			return ApplicationHeader(name)
		}
		return Comment(raw)
	case strings.HasPrefix(trimmed, "#"):
		return Comment(raw)
	default:
		return PathLine(trimmed)
	}
}

// isHeaderName reports whether name can be written back unchanged after a
// header marker. Anything else stays a comment so Format is lossless.
func isHeaderName(name string) bool {
	return name != "" && name == strings.TrimSpace(name) && !strings.HasPrefix(name, "#")
}

// Format renders lines back into manifest text, one line each.
func Format(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Serialize renders applications in the canonical manifest layout: the
// application header, then for each dotfile its entry header and live path.
// Callers filter with FilterResolved first; unresolved entries are skipped.
func Serialize(apps []types.Application) string {
	var lines []Line
	for _, app := range apps {
		lines = append(lines, ApplicationHeader(app.Name))
		for _, d := range app.Dotfiles {
			if !d.Resolved() {
				continue
			}
			lines = append(lines, EntryHeader(d.Name), PathLine(d.LivePath))
		}
	}
	return Format(lines)
}

// Applications groups path lines under the headers preceding them, keeping
// first-seen order. A path without an entry header is named after its base
// name; a path before any application header belongs to MiscApplication.
func Applications(lines []Line) []types.Application {
	var apps []types.Application
	index := make(map[string]int)

	appIndex := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		apps = append(apps, types.Application{Name: name})
		index[name] = len(apps) - 1
		return len(apps) - 1
	}

	currentApp := ""
	currentEntry := ""
	for _, l := range lines {
		switch l.Kind {
		case KindApplication:
			currentApp = l.Text
			currentEntry = ""
			appIndex(currentApp)
		case KindEntry:
			currentEntry = l.Text
		case KindPath:
			app := currentApp
			if app == "" {
				app = MiscApplication
			}
			name := currentEntry
			if name == "" {
				name = filepath.Base(l.Text)
			}
			i := appIndex(app)
			apps[i].Dotfiles = append(apps[i].Dotfiles, types.DotfileEntry{
				Application: app,
				Name:        name,
				LivePath:    l.Text,
			})
			currentEntry = ""
		}
	}
	return apps
}

// FilterResolved drops unresolved dotfiles, then applications left empty.
func FilterResolved(apps []types.Application) []types.Application {
	out := make([]types.Application, 0, len(apps))
	for _, app := range apps {
		kept := make([]types.DotfileEntry, 0, len(app.Dotfiles))
		for _, d := range app.Dotfiles {
			if d.Resolved() {
				kept = append(kept, d)
			}
		}
		if len(kept) == 0 {
			continue
		}
		out = append(out, types.Application{Name: app.Name, Dotfiles: kept})
	}
	return out
}

// Append adds an entry for path under application app, creating the header
// at the end of the manifest if needed. The second result is false when
// path is already tracked, in which case lines is returned unchanged.
func Append(lines []Line, app, name, path string) ([]Line, bool) {
	for _, l := range lines {
		if l.Kind == KindPath && l.Text == path {
			return lines, false
		}
	}

	entry := []Line{EntryHeader(name), PathLine(path)}

	header := -1
	for i, l := range lines {
		if l.Kind == KindApplication && l.Text == app {
			header = i
			break
		}
	}
	if header < 0 {
		out := make([]Line, 0, len(lines)+3)
		out = append(out, lines...)
		out = append(out, ApplicationHeader(app))
		return append(out, entry...), true
	}

	// Insert after the last entry or path line of the section, so trailing
	// comments stay where the user put them.
	insertAt := header + 1
	for i := header + 1; i < len(lines); i++ {
		if lines[i].Kind == KindApplication {
			break
		}
		if lines[i].Kind == KindEntry || lines[i].Kind == KindPath {
			insertAt = i + 1
		}
	}

	out := make([]Line, 0, len(lines)+len(entry))
	out = append(out, lines[:insertAt]...)
	out = append(out, entry...)
	return append(out, lines[insertAt:]...), true
}
