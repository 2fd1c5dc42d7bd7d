// Where: deploy/internal/usecase/pipeline/workflow.go
// What: Workflow dependencies and shared command helpers.
// Why: Every step runs external tools through the same echo-and-run path.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/fishgills/mud/deploy/internal/config"
	"github.com/fishgills/mud/deploy/internal/infra/cloudrun"
	"github.com/fishgills/mud/deploy/internal/infra/process"
	"github.com/fishgills/mud/deploy/internal/infra/ui"
)

type (
	// LookPathFunc resolves a command on PATH.
	LookPathFunc func(name string) (string, error)
	// ImageIDFunc returns the local image ID for a reference.
	ImageIDFunc func(ctx context.Context, ref string) (string, error)
	// ServiceListFunc lists deployed services for the summary.
	ServiceListFunc func(ctx context.Context, projectID, region string) ([]cloudrun.ServiceInfo, error)
	// EnsureProxyFunc makes the proxy binary available at path.
	EnsureProxyFunc func(ctx context.Context, path, url string) (bool, error)
	// ProbeFunc checks the database answers on dsn.
	ProbeFunc func(ctx context.Context, dsn string) error
	// SleepFunc waits for d or until ctx is done.
	SleepFunc func(ctx context.Context, d time.Duration) error
)

// Workflow sequences deployment steps for one resolved configuration.
type Workflow struct {
	Config        config.Config
	Runner        process.CommandRunner
	UserInterface ui.UserInterface

	LookPath     LookPathFunc
	ImageID      ImageIDFunc
	ListServices ServiceListFunc
	EnsureProxy  EnsureProxyFunc
	ProbeDB      ProbeFunc
	Sleep        SleepFunc
}

func (w Workflow) ui() ui.UserInterface {
	if w.UserInterface == nil {
		return ui.NewPlainUI(io.Discard)
	}
	return w.UserInterface
}

func (w Workflow) lookPath() LookPathFunc {
	if w.LookPath == nil {
		return exec.LookPath
	}
	return w.LookPath
}

func (w Workflow) sleep() SleepFunc {
	if w.Sleep == nil {
		return sleepContext
	}
	return w.Sleep
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (w Workflow) run(ctx context.Context, dir, name string, args ...string) error {
	if w.Runner == nil {
		return errRunnerNotConfigured
	}
	w.echo(name, args)
	return w.Runner.Run(ctx, dir, name, args...)
}

func (w Workflow) runOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if w.Runner == nil {
		return nil, errRunnerNotConfigured
	}
	w.echo(name, args)
	return w.Runner.RunOutput(ctx, dir, name, args...)
}

func (w Workflow) echo(name string, args []string) {
	w.ui().Info("$ " + strings.Join(append([]string{name}, args...), " "))
}

// accessSecret reads the latest version of a Secret Manager secret.
func (w Workflow) accessSecret(ctx context.Context, secret string) (string, error) {
	out, err := w.runOutput(ctx, w.Config.RootDir,
		"gcloud", "secrets", "versions", "access", "latest", "--secret="+secret)
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", secret, err)
	}
	value := strings.TrimSpace(string(out))
	if value == "" {
		return "", fmt.Errorf("%w: %s", errEmptySecret, secret)
	}
	return value, nil
}
