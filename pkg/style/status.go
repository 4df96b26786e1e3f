package style

import (
	"github.com/arthur-debert/sdfm/pkg/datastore"
	"github.com/pterm/pterm"
)

// LinkStateStyle returns the pterm style for a link state
func LinkStateStyle(s datastore.LinkState) *pterm.Style {
	switch s {
	case datastore.StateLinked, datastore.StateCopied:
		return pterm.NewStyle(pterm.FgGreen)
	case datastore.StateModified:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case datastore.StatePending:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgRed)
	}
}
