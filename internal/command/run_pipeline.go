// Where: deploy/internal/command/run_pipeline.go
// What: Config resolution and pipeline execution for deploy commands.
// Why: Resolve the version once and hand a fixed configuration to the workflow.
package command

import (
	"errors"
	"path/filepath"

	"github.com/fishgills/mud/deploy/internal/config"
	"github.com/fishgills/mud/deploy/internal/infra/ui"
	"github.com/fishgills/mud/deploy/internal/usecase/pipeline"
)

var errWorkflowFactoryMissing = errors.New("workflow factory is not configured")

func runPipeline(command string, cli CLI, deps Dependencies) int {
	out := deps.Out
	console := consoleUI(out, cli.NoColor)

	cfg, err := resolveConfig(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	if deps.NewWorkflow == nil {
		return exitWithError(out, errWorkflowFactoryMissing)
	}

	executor, cleanup, err := deps.NewWorkflow(deps.Context, Session{
		Config:  cfg,
		UI:      console,
		Verbose: cli.Verbose,
	})
	if err != nil {
		return exitWithError(out, err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	if err := executor.Run(deps.Context, command); err != nil {
		return exitWithPipelineError(console, err)
	}
	return 0
}

// resolveConfig loads the config file, roots it at the working directory
// and applies env and flag overrides.
func resolveConfig(cli CLI, deps Dependencies) (config.Config, error) {
	wd, err := deps.Getwd()
	if err != nil {
		return config.Config{}, err
	}

	path := cli.Config
	required := path != ""
	if !required {
		path = config.DefaultPath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(wd, path)
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return config.Config{}, err
	}
	cfg.RootDir = wd
	return config.Resolve(cfg, deps.LookupEnv, config.Overrides{
		ProjectID: cli.Project,
		Region:    cli.Region,
		Version:   cli.BuildVersion,
	}, deps.Revision(wd)), nil
}

func exitWithPipelineError(console ui.UserInterface, err error) int {
	console.Error(err.Error())
	if errors.Is(err, pipeline.ErrMissingPrerequisite) {
		console.ItemPlain("Install the missing tool and make sure it is on PATH.")
	}
	return 1
}
