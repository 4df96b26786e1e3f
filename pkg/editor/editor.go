// Package editor opens files in the user's editor.
package editor

import (
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/logging"
)

// EnvEditor names the preferred editor command.
const EnvEditor = "EDITOR"

// DefaultEditor is used when EDITOR is unset.
const DefaultEditor = "nano"

// Resolve returns the editor command and its arguments. EDITOR may carry
// flags, as in "code --wait".
func Resolve() []string {
	if fields := strings.Fields(os.Getenv(EnvEditor)); len(fields) > 0 {
		return fields
	}
	return []string{DefaultEditor}
}

// Command builds the editor invocation for path, attached to the current
// terminal.
func Command(path string) *exec.Cmd {
	argv := append(Resolve(), path)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Open edits path and waits for the editor to exit.
func Open(path string) error {
	cmd := Command(path)
	logger := logging.GetLogger("editor")
	logger.Debug().
		Strs("argv", cmd.Args).
		Msg("Starting editor")

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "editor %s failed", cmd.Args[0]).
			WithDetail("path", path)
	}
	return nil
}
