// Command sdfm-manpage generates sdfm's man pages. With no argument it
// writes sdfm(1) to stdout; given a directory it writes one page per
// subcommand (sdfm-sync.1, sdfm-pull.1, ...) into it.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/sdfm/cmd/sdfm"
	"github.com/arthur-debert/sdfm/internal/version"
)

// environment is appended to the root description, since cobra's man
// generator has no section of its own for it.
const environment = `

ENVIRONMENT

SDFM_CONFIG_DIR overrides the config directory ($XDG_CONFIG_HOME/sdfm), which holds config.toml, the dotfiles manifest and the repo/ clone.

SDFM_STATE_DIR overrides the state directory ($XDG_STATE_HOME/sdfm), which holds sdfm.log.

SDFM_REPO, SDFM_TARGET_BRANCH and the other SDFM_* variables override config.toml keys.

SSH_PASSPHRASE unlocks an encrypted SSH key; sdfm never prompts for it.

EDITOR is used by init and edit to open the manifest.

NO_COLOR disables colored output.`

func main() {
	rootCmd := sdfm.NewRootCmd()
	rootCmd.Long += environment

	header := &doc.GenManHeader{
		Title:   "SDFM",
		Section: "1",
		Source:  "sdfm " + version.Version,
		Manual:  "sdfm manual",
	}
	// Release builds stamp the date; dev builds fall back to today
	if built, err := time.Parse(time.RFC3339, version.Date); err == nil {
		header.Date = &built
	}

	var err error
	if len(os.Args) > 1 {
		dir := os.Args[1]
		if err = os.MkdirAll(dir, 0755); err == nil {
			err = doc.GenManTree(rootCmd, header, dir)
		}
	} else {
		err = doc.GenMan(rootCmd, header, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating sdfm man page: %v\n", err)
		os.Exit(1)
	}
}
