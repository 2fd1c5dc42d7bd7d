// Where: deploy/internal/command/output.go
// What: Output helpers for command adapters.
// Why: Centralize UserInterface usage and raw line output.
package command

import (
	"io"

	"github.com/fishgills/mud/deploy/internal/infra/ui"
)

func plainUI(out io.Writer) ui.UserInterface {
	return ui.NewPlainUI(out)
}

func consoleUI(out io.Writer, noColor bool) ui.UserInterface {
	if noColor {
		return ui.NewPlainUI(out)
	}
	return ui.NewUI(out)
}
