// Where: deploy/cmd/mud-deploy/cli_test.go
// What: Tests for CLI dependency wiring.
// Why: Ensure optional clients degrade without failing the workflow.
package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types/image"
	"github.com/fishgills/mud/deploy/internal/command"
	"github.com/fishgills/mud/deploy/internal/config"
	"github.com/fishgills/mud/deploy/internal/infra/cloudrun"
	"github.com/fishgills/mud/deploy/internal/infra/docker"
	"github.com/fishgills/mud/deploy/internal/infra/ui"
	"github.com/fishgills/mud/deploy/internal/usecase/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDockerClient struct {
	closed int
}

func (f *fakeDockerClient) ImageList(_ context.Context, _ image.ListOptions) ([]image.Summary, error) {
	return []image.Summary{{ID: "sha256:0123456789abcdef", RepoTags: []string{"repo/dm:v1"}}}, nil
}

func (f *fakeDockerClient) Close() error {
	f.closed++
	return nil
}

type fakeLister struct {
	closed int
}

func (f *fakeLister) ListServices(_ context.Context, projectID, region string) ([]cloudrun.ServiceInfo, error) {
	return []cloudrun.ServiceInfo{{Name: projectID + "/" + region, URI: "https://x"}}, nil
}

func (f *fakeLister) Close() error {
	f.closed++
	return nil
}

func stubClients(t *testing.T, dockerClient docker.Client, dockerErr error, lister cloudrun.Lister) {
	t.Helper()
	origDocker, origLister, origLog := newDockerClient, newLister, logOutput
	t.Cleanup(func() {
		newDockerClient, newLister, logOutput = origDocker, origLister, origLog
	})
	newDockerClient = func() (docker.Client, error) { return dockerClient, dockerErr }
	newLister = func(context.Context) (cloudrun.Lister, error) { return lister, nil }
	logOutput = &bytes.Buffer{}
}

func testSession(t *testing.T) command.Session {
	t.Helper()
	cfg, err := config.Defaults()
	require.NoError(t, err)
	return command.Session{Config: cfg, UI: ui.NewPlainUI(&bytes.Buffer{})}
}

func TestNewWorkflowWiresClients(t *testing.T) {
	dockerClient := &fakeDockerClient{}
	lister := &fakeLister{}
	stubClients(t, dockerClient, nil, lister)

	executor, cleanup, err := newWorkflow(context.Background(), testSession(t))
	require.NoError(t, err)

	wf, ok := executor.(pipeline.Workflow)
	require.True(t, ok)
	require.NotNil(t, wf.Runner)
	require.NotNil(t, wf.EnsureProxy)
	require.NotNil(t, wf.ProbeDB)

	id, err := wf.ImageID(context.Background(), "repo/dm:v1")
	require.NoError(t, err)
	assert.Equal(t, "0123456789ab", id)

	services, err := wf.ListServices(context.Background(), "p", "r")
	require.NoError(t, err)
	assert.Equal(t, []cloudrun.ServiceInfo{{Name: "p/r", URI: "https://x"}}, services)
	assert.Equal(t, 1, lister.closed)

	cleanup()
	assert.Equal(t, 1, dockerClient.closed)
}

func TestNewWorkflowWithoutDocker(t *testing.T) {
	stubClients(t, nil, errors.New("no daemon"), &fakeLister{})

	executor, cleanup, err := newWorkflow(context.Background(), testSession(t))
	require.NoError(t, err)
	cleanup()

	wf := executor.(pipeline.Workflow)
	assert.Nil(t, wf.ImageID)
}

func TestBuildDependencies(t *testing.T) {
	ctx := context.Background()
	deps := buildDependencies(ctx)

	assert.Equal(t, ctx, deps.Context)
	assert.NotNil(t, deps.Out)
	assert.NotNil(t, deps.NewWorkflow)
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	orig := logOutput
	logOutput = &buf
	t.Cleanup(func() { logOutput = orig })

	quiet := newLogger(false)
	quiet.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	verbose := newLogger(true)
	verbose.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
