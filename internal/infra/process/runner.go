// Where: deploy/internal/infra/process/runner.go
// What: External command execution for every tool the orchestrator drives.
// Why: Keep os/exec behind one interface so pipelines can be tested with fakes.
package process

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// CommandRunner defines the interface for executing external commands.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
	RunOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	RunWithEnv(ctx context.Context, dir string, env []string, name string, args ...string) error
	Start(ctx context.Context, dir, name string, args ...string) (Process, error)
}

// ExecRunner is a concrete implementation of CommandRunner using os/exec.
// Output of streamed commands goes to Out/ErrOut; captured commands keep
// stdout and still stream stderr so tool errors stay visible.
type ExecRunner struct {
	Out    io.Writer
	ErrOut io.Writer
	Logger zerolog.Logger
}

// NewExecRunner returns an ExecRunner writing to the process stdio.
func NewExecRunner(logger zerolog.Logger) ExecRunner {
	return ExecRunner{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		Logger: logger,
	}
}

func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	return r.exec(cmd, dir, name, args)
}

func (r ExecRunner) RunOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = r.stderr()
	if err := r.exec(cmd, dir, name, args); err != nil {
		return stdout.Bytes(), err
	}
	return stdout.Bytes(), nil
}

// RunWithEnv runs a command with extra environment entries appended to the
// current environment. The entries are visible to the child only.
func (r ExecRunner) RunWithEnv(ctx context.Context, dir string, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	return r.exec(cmd, dir, name, args)
}

// Start launches a background process. The process is not bound to ctx;
// callers own its lifetime and must stop it through the returned handle.
func (r ExecRunner) Start(_ context.Context, dir, name string, args ...string) (Process, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}
	r.Logger.Debug().
		Str("cmd", name).
		Strs("args", args).
		Int("pid", cmd.Process.Pid).
		Msg("background process started")
	return newExecProcess(cmd, r.Logger), nil
}

func (r ExecRunner) exec(cmd *exec.Cmd, dir, name string, args []string) error {
	started := time.Now()
	r.Logger.Debug().Str("dir", dir).Str("cmd", name).Strs("args", args).Msg("exec")
	err := cmd.Run()
	event := r.Logger.Debug()
	if err != nil {
		event = r.Logger.Warn().Err(err)
	}
	event.Str("cmd", name).Dur("elapsed", time.Since(started)).Msg("exec finished")
	if err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

func (r ExecRunner) stdout() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

func (r ExecRunner) stderr() io.Writer {
	if r.ErrOut == nil {
		return os.Stderr
	}
	return r.ErrOut
}
