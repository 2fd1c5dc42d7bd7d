package process

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"github.com/rs/zerolog"
)

// Process is a handle on a background child process.
type Process interface {
	Pid() int
	// Terminate asks the process to exit gracefully.
	Terminate() error
	// Kill forces the process to exit.
	Kill() error
	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}
}

type execProcess struct {
	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
	logger  zerolog.Logger
}

func newExecProcess(cmd *exec.Cmd, logger zerolog.Logger) *execProcess {
	p := &execProcess{
		cmd:    cmd,
		done:   make(chan struct{}),
		logger: logger,
	}
	go p.wait()
	return p
}

func (p *execProcess) wait() {
	err := p.cmd.Wait()
	p.waitErr = err
	close(p.done)
	p.logger.Debug().Int("pid", p.Pid()).AnErr("wait", err).Msg("background process exited")
}

func (p *execProcess) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *execProcess) Terminate() error {
	if p.exited() {
		return nil
	}
	return ignoreFinished(p.cmd.Process.Signal(syscall.SIGTERM))
}

func (p *execProcess) Kill() error {
	if p.exited() {
		return nil
	}
	return ignoreFinished(p.cmd.Process.Kill())
}

func (p *execProcess) Done() <-chan struct{} {
	return p.done
}

// Err returns the result of waiting on the process once it has exited.
func (p *execProcess) Err() error {
	<-p.done
	return p.waitErr
}

func (p *execProcess) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func ignoreFinished(err error) error {
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}
