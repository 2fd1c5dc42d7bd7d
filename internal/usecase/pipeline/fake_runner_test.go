package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fishgills/mud/deploy/internal/config"
	"github.com/fishgills/mud/deploy/internal/infra/process"
	"github.com/fishgills/mud/deploy/internal/infra/ui"
	"github.com/stretchr/testify/require"
)

type call struct {
	dir  string
	name string
	args []string
	env  []string
}

func (c call) line() string {
	return strings.TrimSpace(c.name + " " + strings.Join(c.args, " "))
}

// fakeRunner records every invocation. Outputs and errors are matched by
// command-line prefix.
type fakeRunner struct {
	calls   []call
	outputs map[string]string
	errs    map[string]error
	proc    *fakeProcess
	onStart func()
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: map[string]string{},
		errs:    map[string]error{},
	}
}

func (f *fakeRunner) record(c call) error {
	f.calls = append(f.calls, c)
	for prefix, err := range f.errs {
		if strings.HasPrefix(c.line(), prefix) {
			return err
		}
	}
	return nil
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	return f.record(call{dir: dir, name: name, args: args})
}

func (f *fakeRunner) RunOutput(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	c := call{dir: dir, name: name, args: args}
	if err := f.record(c); err != nil {
		return nil, err
	}
	for prefix, out := range f.outputs {
		if strings.HasPrefix(c.line(), prefix) {
			return []byte(out), nil
		}
	}
	return nil, nil
}

func (f *fakeRunner) RunWithEnv(_ context.Context, dir string, env []string, name string, args ...string) error {
	return f.record(call{dir: dir, name: name, args: args, env: env})
}

func (f *fakeRunner) Start(_ context.Context, dir, name string, args ...string) (process.Process, error) {
	if err := f.record(call{dir: dir, name: name, args: args}); err != nil {
		return nil, err
	}
	if f.onStart != nil {
		f.onStart()
	}
	if f.proc == nil {
		f.proc = newFakeProcess(true)
	}
	return f.proc, nil
}

func (f *fakeRunner) lines() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.line())
	}
	return out
}

func (f *fakeRunner) find(prefix string) []call {
	var matched []call
	for _, c := range f.calls {
		if strings.HasPrefix(c.line(), prefix) {
			matched = append(matched, c)
		}
	}
	return matched
}

// fakeProcess exits on Terminate when exitOnTerm is set, otherwise only on Kill.
type fakeProcess struct {
	mu         sync.Mutex
	exitOnTerm bool
	terminates int
	kills      int
	done       chan struct{}
	closed     bool
}

func newFakeProcess(exitOnTerm bool) *fakeProcess {
	return &fakeProcess{exitOnTerm: exitOnTerm, done: make(chan struct{})}
}

func (p *fakeProcess) Pid() int { return 4242 }

func (p *fakeProcess) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terminates++
	if p.exitOnTerm {
		p.exit()
	}
	return nil
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kills++
	p.exit()
	return nil
}

func (p *fakeProcess) exit() {
	if !p.closed {
		p.closed = true
		close(p.done)
	}
}

func (p *fakeProcess) Done() <-chan struct{} { return p.done }

type testEnv struct {
	runner *fakeRunner
	out    *bytes.Buffer
	wf     Workflow
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg, err := config.Defaults()
	require.NoError(t, err)
	cfg.Version = "abc1234"
	cfg.RootDir = t.TempDir()

	runner := newFakeRunner()
	out := &bytes.Buffer{}
	wf := Workflow{
		Config:        cfg,
		Runner:        runner,
		UserInterface: ui.NewPlainUI(out),
		LookPath:      func(name string) (string, error) { return "/usr/bin/" + name, nil },
		Sleep:         func(context.Context, time.Duration) error { return nil },
	}
	return &testEnv{runner: runner, out: out, wf: wf}
}

var errBoom = errors.New("boom")

func secretCommand(secret string) string {
	return fmt.Sprintf("gcloud secrets versions access latest --secret=%s", secret)
}
