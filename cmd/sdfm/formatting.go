package sdfm

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/sdfm/pkg/logging"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// styledOutput reports whether help output should carry terminal styling:
// stdout is a terminal and NO_COLOR is unset.
func styledOutput() bool {
	if os.Getenv(logging.EnvNoColor) != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	if !styledOutput() {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// formatBoldUpper returns the string in uppercase and bold
func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// cycleCommands are the commands whose exit status callers script against.
var cycleCommands = map[string]bool{"sdfm": true, "sync": true, "pull": true}

// exitCodes renders the exit status table for the root, sync and pull help
// pages and returns "" for every other command.
func exitCodes(cmd *cobra.Command) string {
	if !cycleCommands[cmd.Name()] {
		return ""
	}
	rows := []struct {
		code int
		text string
	}{
		{ExitOK, MsgExitOK},
		{ExitFailure, MsgExitFailure},
		{ExitConflict, MsgExitConflict},
		{ExitPartial, MsgExitPartial},
	}
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %d  %s", row.code, row.text)
	}
	return b.String()
}

// initTemplateFormatting adds custom formatting functions to Cobra templates
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     strings.ToUpper,
		"boldUpper": formatBoldUpper,
		"exitCodes": exitCodes,
	})
}
