package command

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/fishgills/mud/deploy/internal/config"
)

func setWorkingDir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd %s: %v", prev, err)
		}
	})
}

type fakeExecutor struct {
	commands []string
	err      error
}

func (f *fakeExecutor) Run(_ context.Context, command string) error {
	f.commands = append(f.commands, command)
	return f.err
}

type harness struct {
	out      bytes.Buffer
	env      map[string]string
	wd       string
	executor *fakeExecutor
	sessions []Session
	cleaned  int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		env:      map[string]string{},
		wd:       t.TempDir(),
		executor: &fakeExecutor{},
	}
}

func (h *harness) deps() Dependencies {
	return Dependencies{
		Out:   &h.out,
		Getwd: func() (string, error) { return h.wd, nil },
		LookupEnv: func(key string) (string, bool) {
			v, ok := h.env[key]
			return v, ok
		},
		Revision: func(string) config.RevisionFunc {
			return func() (string, error) { return "feed123", nil }
		},
		NewWorkflow: func(_ context.Context, s Session) (Executor, func(), error) {
			h.sessions = append(h.sessions, s)
			return h.executor, func() { h.cleaned++ }, nil
		},
	}
}

func (h *harness) run(args ...string) int {
	return Run(args, h.deps())
}
