package vault

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/prentissw/charted-roots/internal/shellquote"
)

// OpenInEditor opens a note in the user's editor, preferring the configured
// command and falling back to $EDITOR. Returns false when no editor is
// available or it failed to start.
//
// A command containing spaces (e.g. "open -a Obsidian") runs via the shell
// so its arguments survive.
func OpenInEditor(editor, filePath string) bool {
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		return false
	}

	var cmd *exec.Cmd
	if strings.Contains(editor, " ") {
		cmd = exec.Command("sh", "-c", editor+" "+shellquote.Quote(filePath))
	} else {
		cmd = exec.Command(editor, filePath)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: editor %q: %v\n", editor, err)
		return false
	}
	return true
}
