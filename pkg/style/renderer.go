package style

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/sdfm/pkg/datastore"
	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/sync"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// Renderer turns command results into terminal output
type Renderer struct {
	format Format
}

// NewRenderer creates a renderer for the given format
func NewRenderer(format Format) *Renderer {
	return &Renderer{format: format}
}

func (r *Renderer) paint(s lipgloss.Style, text string) string {
	if r.format == FormatText {
		return text
	}
	return s.Render(text)
}

func (r *Renderer) prefix(p pterm.PrefixPrinter, plain string) string {
	if r.format == FormatText {
		return plain
	}
	return p.Prefix.Style.Sprint(" " + p.Prefix.Text + " ")
}

func (r *Renderer) success() string { return r.prefix(pterm.Success, "[ok]") }
func (r *Renderer) warning() string { return r.prefix(pterm.Warning, "[warn]") }
func (r *Renderer) failure() string { return r.prefix(pterm.Error, "[error]") }

// RenderApplications lists applications and their resolved entries
func (r *Renderer) RenderApplications(apps []types.Application) string {
	if len(types.Entries(apps)) == 0 {
		return r.paint(MutedStyle, "No dotfiles found.")
	}

	var b strings.Builder
	for _, app := range apps {
		if len(app.Dotfiles) == 0 {
			continue
		}
		b.WriteString(r.paint(AppStyle, app.Name) + "\n")
		for _, d := range app.Dotfiles {
			fmt.Fprintf(&b, "  %-16s %s\n", d.Name, r.paint(PathStyle, d.LivePath))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderSyncResult summarizes a sync cycle
func (r *Renderer) RenderSyncResult(res *sync.Result) string {
	var b strings.Builder

	switch res.Status {
	case sync.StatusSynced:
		fmt.Fprintf(&b, "%s %s\n", r.success(), r.syncSummary(res))
	case sync.StatusConflict:
		fmt.Fprintf(&b, "%s %s\n", r.warning(), r.paint(WarningStyle, "Conflict on "+res.Branch))
		if res.Err != nil {
			b.WriteString("  " + message(res.Err) + "\n")
		}
	default:
		fmt.Fprintf(&b, "%s %s\n", r.failure(), r.paint(ErrorStyle, "Sync failed"))
		if res.Err != nil {
			b.WriteString("  " + message(res.Err) + "\n")
		}
	}

	if len(res.Failures) > 0 {
		fmt.Fprintf(&b, "%s %d dotfile(s) skipped:\n", r.warning(), len(res.Failures))
		for _, f := range res.Failures {
			fmt.Fprintf(&b, "  %s/%s %s\n",
				f.Entry.Application, f.Entry.Name, r.paint(MutedStyle, message(f.Err)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) syncSummary(res *sync.Result) string {
	var parts []string
	if res.Commit != "" {
		parts = append(parts, "committed "+shortHash(res.Commit))
	}
	if res.Pushed {
		parts = append(parts, "pushed to "+res.Branch)
	}
	if res.Pulled {
		parts = append(parts, "pulled "+res.Branch)
	}
	if len(parts) == 0 {
		return "Already up to date on " + res.Branch
	}
	s := strings.Join(parts, ", ")
	return strings.ToUpper(s[:1]) + s[1:]
}

// RenderStatus lists the link state of every manifest entry
func (r *Renderer) RenderStatus(repo, branch string, entries []datastore.EntryStatus) string {
	var b strings.Builder

	b.WriteString(r.paint(TitleStyle, "Repository") + "\n")
	if repo == "" {
		b.WriteString("  " + r.paint(MutedStyle, "not initialized, run `sdfm init <url>`") + "\n")
	} else {
		fmt.Fprintf(&b, "  %s (%s)\n", repo, branch)
	}

	b.WriteString("\n" + r.paint(TitleStyle, "Dotfiles") + "\n")
	if len(entries) == 0 {
		b.WriteString("  " + r.paint(MutedStyle, "none tracked") + "\n")
	}

	app := ""
	for _, e := range entries {
		if e.Entry.Application != app {
			app = e.Entry.Application
			b.WriteString("  " + r.paint(AppStyle, app) + "\n")
		}
		path := e.Entry.LivePath
		if path == "" {
			path = "-"
		}
		fmt.Fprintf(&b, "    %-16s %s %s\n", e.Entry.Name, r.linkState(e.State), r.paint(PathStyle, path))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) linkState(s datastore.LinkState) string {
	label := fmt.Sprintf("%-8s", s)
	if r.format == FormatText {
		return label
	}
	return LinkStateStyle(s).Sprint(label)
}

// RenderError formats an error for the terminal
func (r *Renderer) RenderError(err error) string {
	return fmt.Sprintf("%s %s", r.failure(), message(err))
}

// message strips the code prefix from sdfm errors.
func message(err error) string {
	var e *errors.SdfmError
	if stderrors.As(err, &e) {
		if e.Wrapped != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
		}
		return e.Message
	}
	return err.Error()
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
