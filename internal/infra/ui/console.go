// Where: deploy/internal/infra/ui/console.go
// What: Console output helpers for consistent CLI UX.
// Why: Standardize level prefixes, colors, and indentation across pipelines.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorRed    = "\033[0;31m"
	colorReset  = "\033[0m"
)

// IsTerminal reports whether the writer refers to a terminal device.
var IsTerminal = func(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok || file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Console provides helper methods for formatted output.
type Console struct {
	Out          io.Writer
	ColorEnabled bool
}

// New creates a new Console writing to out. Colors are enabled only when
// out is a terminal.
func New(out io.Writer) *Console {
	return &Console{Out: out, ColorEnabled: IsTerminal(out)}
}

// NewWithColor creates a new Console with explicit color settings.
func NewWithColor(out io.Writer, enabled bool) *Console {
	return &Console{Out: out, ColorEnabled: enabled}
}

// Info prints an info message.
// Example: [INFO] Building dm image...
func (c *Console) Info(msg string) {
	fmt.Fprintf(c.Out, "%s %s\n", c.tag(colorGreen, "INFO"), msg)
}

// Warn prints a warning message.
func (c *Console) Warn(msg string) {
	fmt.Fprintf(c.Out, "%s %s\n", c.tag(colorYellow, "WARNING"), msg)
}

// Error prints an error message.
func (c *Console) Error(msg string) {
	fmt.Fprintf(c.Out, "%s %s\n", c.tag(colorRed, "ERROR"), msg)
}

// Success prints a success message.
func (c *Console) Success(msg string) {
	c.Info(msg)
}

// Item prints an indented KEY=VALUE line.
// Example:   DM_GQL_ENDPOINT=https://dm.example/graphql
func (c *Console) Item(key string, value any) {
	fmt.Fprintf(c.Out, "  %s=%v\n", key, value)
}

// ItemPlain prints a generic indented line.
func (c *Console) ItemPlain(msg string) {
	fmt.Fprintf(c.Out, "  %s\n", msg)
}

func (c *Console) tag(color, label string) string {
	if !c.ColorEnabled {
		return "[" + label + "]"
	}
	return color + "[" + label + "]" + colorReset
}
