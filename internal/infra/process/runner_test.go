// Where: deploy/internal/infra/process/runner_test.go
// What: Tests for command execution and background process handles.
// Why: Ensure output routing, env scoping, and process stop semantics hold.
package process

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(out, errOut *bytes.Buffer) ExecRunner {
	return ExecRunner{Out: out, ErrOut: errOut, Logger: zerolog.Nop()}
}

func TestExecRunnerRunUsesInjectedWriters(t *testing.T) {
	var out, errOut bytes.Buffer
	runner := newTestRunner(&out, &errOut)

	require.NoError(t, runner.Run(context.Background(), "", "sh", "-c", "printf out; printf err >&2"))
	assert.Equal(t, "out", out.String())
	assert.Equal(t, "err", errOut.String())
}

func TestExecRunnerRunOutputCapturesStdoutOnly(t *testing.T) {
	var out, errOut bytes.Buffer
	runner := newTestRunner(&out, &errOut)

	got, err := runner.RunOutput(context.Background(), "", "sh", "-c", "printf secret; printf noise >&2")
	require.NoError(t, err)
	assert.Equal(t, "secret", string(got))
	assert.Empty(t, out.String())
	assert.Equal(t, "noise", errOut.String())
}

func TestExecRunnerRunWrapsFailure(t *testing.T) {
	var out, errOut bytes.Buffer
	runner := newTestRunner(&out, &errOut)

	err := runner.Run(context.Background(), "", "sh", "-c", "exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run sh")
}

func TestExecRunnerRunWithEnvScopesToChild(t *testing.T) {
	var out, errOut bytes.Buffer
	runner := newTestRunner(&out, &errOut)

	err := runner.RunWithEnv(context.Background(), "", []string{"SCOPED_VALUE=child"}, "sh", "-c", "printf \"$SCOPED_VALUE\"")
	require.NoError(t, err)
	assert.Equal(t, "child", out.String())
	_, present := os.LookupEnv("SCOPED_VALUE")
	assert.False(t, present)
}

func TestExecRunnerRunUsesDir(t *testing.T) {
	var out, errOut bytes.Buffer
	runner := newTestRunner(&out, &errOut)
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, runner.Run(context.Background(), dir, "sh", "-c", "pwd -P"))
	assert.Equal(t, dir+"\n", out.String())
}

func TestStartTerminateStopsProcess(t *testing.T) {
	var out, errOut bytes.Buffer
	runner := newTestRunner(&out, &errOut)

	proc, err := runner.Start(context.Background(), "", "sleep", "30")
	require.NoError(t, err)
	assert.Positive(t, proc.Pid())

	require.NoError(t, proc.Terminate())
	select {
	case <-proc.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit after terminate")
	}
	assert.NoError(t, proc.Terminate())
	assert.NoError(t, proc.Kill())
}

func TestStartReportsMissingBinary(t *testing.T) {
	var out, errOut bytes.Buffer
	runner := newTestRunner(&out, &errOut)

	_, err := runner.Start(context.Background(), "", "/nonexistent/binary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start /nonexistent/binary")
}

func TestProcessErrReportsExit(t *testing.T) {
	var out, errOut bytes.Buffer
	runner := newTestRunner(&out, &errOut)

	proc, err := runner.Start(context.Background(), "", "sh", "-c", "exit 0")
	require.NoError(t, err)
	execProc, ok := proc.(*execProcess)
	require.True(t, ok)
	assert.NoError(t, execProc.Err())
}
