package style

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders help topics with glamour
type MarkdownRenderer struct {
	Format Format
	Style  string // "auto", "dark", "light", "notty" or a path to a custom style
	Width  int    // 0 keeps glamour's default
}

// NewMarkdownRenderer creates a renderer with auto-detected style
func NewMarkdownRenderer(format Format) *MarkdownRenderer {
	return &MarkdownRenderer{Format: format, Style: "auto"}
}

// Render converts markdown to terminal output. Plain text output and
// renderer failures return the content unchanged.
func (r *MarkdownRenderer) Render(content string) string {
	if r.Format == FormatText {
		return content
	}

	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
