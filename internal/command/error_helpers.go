// Where: deploy/internal/command/error_helpers.go
// What: Shared CLI error output.
// Why: Keep failure messages and exit codes consistent across commands.
package command

import (
	"io"
	"strings"
)

// exitWithError prints an error message to the output writer and returns
// exit code 1 for CLI error handling.
func exitWithError(out io.Writer, err error) int {
	plainUI(out).Error(err.Error())
	return 1
}

// handleParseError provides user-friendly error messages for parse failures.
func handleParseError(err error, out io.Writer) int {
	msg := err.Error()
	if strings.Contains(msg, "expected string value") {
		ui := plainUI(out)
		for _, flag := range []string{"--config", "--env-file", "--project", "--region", "--version"} {
			if strings.Contains(msg, flag) {
				ui.Warn("`" + flag + "` expects a value.")
				ui.ItemPlain("Try: " + cliName() + " --help")
				return 1
			}
		}
	}
	return exitWithError(out, err)
}
