// Where: deploy/internal/usecase/pipeline/errors.go
// What: Shared error definitions for deployment pipelines.
// Why: Let the command layer distinguish fail-fast checks from tool failures.
package pipeline

import "errors"

var (
	// ErrMissingPrerequisite reports a required tool that is not on PATH.
	ErrMissingPrerequisite = errors.New("required command not found")
	// ErrImagesMissing reports services without an image for the version tag.
	ErrImagesMissing = errors.New("images missing for version tag")
	// ErrUnknownCommand reports a pipeline name outside the dispatch table.
	ErrUnknownCommand = errors.New("unknown command")

	errRunnerNotConfigured = errors.New("command runner is not configured")
	errEmptySecret         = errors.New("secret value is empty")
)
