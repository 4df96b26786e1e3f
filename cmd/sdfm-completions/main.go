// Command sdfm-completions writes a shell completion script for sdfm to
// stdout. Packaging runs it once per shell; with no argument it completes
// for the shell named by $SHELL.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/sdfm/cmd/sdfm"
)

var generators = map[string]func(w io.Writer) error{
	"bash": func(w io.Writer) error { return sdfm.NewRootCmd().GenBashCompletionV2(w, true) },
	"zsh":  func(w io.Writer) error { return sdfm.NewRootCmd().GenZshCompletion(w) },
	"fish": func(w io.Writer) error { return sdfm.NewRootCmd().GenFishCompletion(w, true) },
	"powershell": func(w io.Writer) error {
		return sdfm.NewRootCmd().GenPowerShellCompletionWithDesc(w)
	},
}

func main() {
	shell := filepath.Base(os.Getenv("SHELL"))
	if len(os.Args) > 1 {
		shell = os.Args[1]
	}

	gen, ok := generators[shell]
	if !ok {
		fmt.Fprintf(os.Stderr, "Usage: %s [bash|zsh|fish|powershell]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "Unknown shell: %q (defaults to $SHELL)\n", shell)
		os.Exit(1)
	}

	if err := gen(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating %s completion for sdfm: %v\n", shell, err)
		os.Exit(1)
	}
}
