// Where: deploy/internal/command/branding.go
// What: CLI naming for user-facing hints.
// Why: Wrapper scripts can expose the binary under another name.
package command

import (
	"os"
	"strings"
)

func cliName() string {
	name := strings.TrimSpace(os.Getenv("CLI_CMD"))
	if name == "" {
		name = "mud-deploy"
	}
	return name
}
