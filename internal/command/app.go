// Where: deploy/internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fishgills/mud/deploy/internal/config"
	"github.com/fishgills/mud/deploy/internal/infra/git"
	"github.com/fishgills/mud/deploy/internal/infra/ui"
	"github.com/fishgills/mud/deploy/internal/usecase/pipeline"
	"github.com/fishgills/mud/deploy/internal/version"
)

// Dependencies holds everything Run needs from the outside world so tests
// can replace process, filesystem and environment access.
type Dependencies struct {
	Context     context.Context
	Out         io.Writer
	Getwd       func() (string, error)
	LookupEnv   config.LookupFunc
	Revision    func(dir string) config.RevisionFunc
	NewWorkflow WorkflowFactory
}

// Session is the resolved invocation handed to the workflow factory.
type Session struct {
	Config  config.Config
	UI      ui.UserInterface
	Verbose bool
}

// Executor runs a named pipeline.
type Executor interface {
	Run(ctx context.Context, command string) error
}

// WorkflowFactory builds the executor for a session. The returned cleanup
// releases any clients it opened.
type WorkflowFactory func(ctx context.Context, session Session) (Executor, func(), error)

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Config       string `name:"config" help:"Path to deploy config (default: deploy.yaml if present)"`
	EnvFile      string `name:"env-file" help:"Path to .env file"`
	Project      string `name:"project" help:"GCP project ID (overrides GCP_PROJECT_ID)"`
	Region       string `name:"region" help:"GCP region (overrides GCP_REGION)"`
	BuildVersion string `name:"version" help:"Image version tag (overrides BUILD_VERSION)"`
	Verbose      bool   `short:"v" help:"Verbose output"`
	NoColor      bool   `name:"no-color" help:"Disable colored output"`

	Deploy                  PipelineCmd `cmd:"" default:"1" help:"Run the full deployment pipeline"`
	MigrationOnly           PipelineCmd `cmd:"" name:"migration-only" help:"Run database migrations only"`
	BuildOnly               PipelineCmd `cmd:"" name:"build-only" help:"Check prerequisites and sync the workspace"`
	ImagesOnly              PipelineCmd `cmd:"" name:"images-only" help:"Build and push images, then update endpoints"`
	InfraOnly               PipelineCmd `cmd:"" name:"infra-only" help:"Verify images and deploy infrastructure"`
	UpdateSlackBotEndpoints PipelineCmd `cmd:"" name:"update-slack-bot-endpoints" help:"Update slack-bot endpoint environment variables"`
	Version                 VersionCmd  `cmd:"" help:"Show version information"`
}

type (
	PipelineCmd struct{}
	VersionCmd  struct{}
)

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, loads the env file and dispatches
// to the matching handler. Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	deps = withDefaults(deps)
	out := deps.Out

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name(cliName()),
		kong.Description("Build, push, provision and migrate the MUD services on GCP."),
		kong.Writers(out, out),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return exitWithError(out, err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(err, out)
	}
	if isHelp(args) {
		return 0
	}

	loadEnvFile(cli.EnvFile, plainUI(out))

	command := kctx.Command()
	if exitCode, handled := dispatchCommand(command, cli, deps); handled {
		return exitCode
	}

	plainUI(out).Warn("unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies) int

func dispatchCommand(command string, cli CLI, deps Dependencies) (int, bool) {
	handlers := map[string]commandHandler{
		"deploy":  pipelineHandler(pipeline.CommandFull),
		"version": runVersion,
	}
	for _, name := range pipeline.Commands() {
		handlers[name] = pipelineHandler(name)
	}

	if handler, ok := handlers[command]; ok {
		return handler(cli, deps), true
	}
	return 1, false
}

func pipelineHandler(command string) commandHandler {
	return func(cli CLI, deps Dependencies) int {
		return runPipeline(command, cli, deps)
	}
}

// runVersion prints the version information of the CLI.
func runVersion(_ CLI, deps Dependencies) int {
	plainUI(deps.Out).Info(version.GetVersion())
	return 0
}

func withDefaults(deps Dependencies) Dependencies {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}
	if deps.Revision == nil {
		deps.Revision = func(dir string) config.RevisionFunc { return git.RevisionFunc(dir) }
	}
	return deps
}

func isHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

