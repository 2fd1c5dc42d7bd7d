// Where: deploy/cmd/mud-deploy/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction of runners and API clients for testability.
package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fishgills/mud/deploy/internal/command"
	"github.com/fishgills/mud/deploy/internal/infra/cloudrun"
	"github.com/fishgills/mud/deploy/internal/infra/dbprobe"
	"github.com/fishgills/mud/deploy/internal/infra/docker"
	"github.com/fishgills/mud/deploy/internal/infra/process"
	"github.com/fishgills/mud/deploy/internal/infra/sqlproxy"
	"github.com/fishgills/mud/deploy/internal/usecase/pipeline"
	"github.com/rs/zerolog"
)

var logOutput io.Writer = os.Stderr

var (
	newDockerClient = docker.NewClient
	downloadClient  = &http.Client{Timeout: 5 * time.Minute}
)

var newLister = func(ctx context.Context) (cloudrun.Lister, error) {
	return cloudrun.NewAdminClient(ctx)
}

// buildDependencies constructs the runtime dependencies for command.Run.
func buildDependencies(ctx context.Context) command.Dependencies {
	return command.Dependencies{
		Context:     ctx,
		Out:         os.Stdout,
		NewWorkflow: newWorkflow,
	}
}

// newLogger returns a console logger on stderr. Debug output is enabled
// only in verbose mode.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: logOutput, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// newWorkflow wires a pipeline.Workflow for one session. The Docker client
// is best effort: without it the post-push image report is skipped.
func newWorkflow(_ context.Context, session command.Session) (command.Executor, func(), error) {
	logger := newLogger(session.Verbose)
	cfg := session.Config

	wf := pipeline.Workflow{
		Config:        cfg,
		Runner:        process.NewExecRunner(logger),
		UserInterface: session.UI,
		ListServices:  listServices(logger),
		EnsureProxy: func(ctx context.Context, path, url string) (bool, error) {
			return sqlproxy.EnsureBinary(ctx, downloadClient, path, url)
		},
		ProbeDB: dbprobe.NewWaiter(cfg.Migration.ReadyTimeout).Wait,
	}

	cleanup := func() {}
	dockerClient, err := newDockerClient()
	if err != nil {
		logger.Debug().Err(err).Msg("docker client unavailable, image report disabled")
	} else {
		wf.ImageID = func(ctx context.Context, ref string) (string, error) {
			return docker.LocalImageID(ctx, dockerClient, ref)
		}
		cleanup = func() {
			if err := dockerClient.Close(); err != nil {
				logger.Debug().Err(err).Msg("close docker client")
			}
		}
	}
	return wf, cleanup, nil
}

// listServices opens a Cloud Run client per call so commands that never
// print a summary do not need credentials.
func listServices(logger zerolog.Logger) pipeline.ServiceListFunc {
	return func(ctx context.Context, projectID, region string) ([]cloudrun.ServiceInfo, error) {
		lister, err := newLister(ctx)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lister.Close(); err != nil {
				logger.Debug().Err(err).Msg("close cloud run client")
			}
		}()
		return lister.ListServices(ctx, projectID, region)
	}
}
