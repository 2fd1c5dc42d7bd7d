// Where: deploy/internal/infra/ui/ui.go
// What: UI adapter consumed by pipelines.
// Why: Provide a stable output surface that tests can capture.
package ui

import "io"

// UserInterface exposes high-level output helpers used by usecases.
type UserInterface interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Success(msg string)
	Item(key string, value any)
	ItemPlain(msg string)
}

// NewUI returns a UserInterface writing to out with terminal-aware colors.
func NewUI(out io.Writer) UserInterface {
	return New(out)
}

// NewPlainUI returns a UserInterface that never emits color codes.
func NewPlainUI(out io.Writer) UserInterface {
	return NewWithColor(out, false)
}
