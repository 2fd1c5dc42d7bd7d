// Where: deploy/internal/usecase/pipeline/pipeline.go
// What: Named pipelines and the dispatcher that runs them.
// Why: Keep every command's step sequence in one enumerable table.
package pipeline

import (
	"context"
	"fmt"
	"slices"
)

// Command names accepted by Run. Full is the default pipeline.
const (
	CommandFull                    = ""
	CommandMigrationOnly           = "migration-only"
	CommandBuildOnly               = "build-only"
	CommandImagesOnly              = "images-only"
	CommandInfraOnly               = "infra-only"
	CommandUpdateSlackBotEndpoints = "update-slack-bot-endpoints"
)

// Step is one named unit of a pipeline.
type Step struct {
	Name string
	Run  func(Workflow, context.Context) error
}

var (
	stepPrerequisites   = Step{"prerequisites", Workflow.CheckPrerequisites}
	stepConfigureDocker = Step{"configure-docker", Workflow.ConfigureDocker}
	stepSyncWorkspace   = Step{"sync-workspace", Workflow.SyncWorkspace}
	stepBuildAndPush    = Step{"build-and-push", Workflow.BuildAndPushImages}
	stepEnsureImages    = Step{"ensure-images", Workflow.EnsureImagesExist}
	stepTerraform       = Step{"terraform-deploy", Workflow.TerraformDeploy}
	stepEndpoints       = Step{"update-endpoints", Workflow.UpdateEndpoints}
	stepMigrations      = Step{"migrations", Workflow.RunMigrations}
	stepSummary         = Step{"summary", Workflow.PrintSummary}
)

// Pipelines maps each command to its ordered steps.
var Pipelines = map[string][]Step{
	CommandFull: {
		stepPrerequisites, stepConfigureDocker, stepSyncWorkspace,
		stepBuildAndPush, stepTerraform, stepMigrations, stepSummary,
	},
	CommandImagesOnly: {
		stepPrerequisites, stepConfigureDocker, stepSyncWorkspace,
		stepBuildAndPush, stepEndpoints,
	},
	CommandInfraOnly:               {stepEnsureImages, stepTerraform},
	CommandBuildOnly:               {stepPrerequisites, stepSyncWorkspace},
	CommandMigrationOnly:           {stepMigrations},
	CommandUpdateSlackBotEndpoints: {stepEndpoints},
}

// Commands returns the non-default command names in sorted order.
func Commands() []string {
	names := make([]string, 0, len(Pipelines))
	for name := range Pipelines {
		if name != CommandFull {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Run prints the invocation header and executes the pipeline for command.
// Steps run in order and the first error aborts the pipeline.
func (w Workflow) Run(ctx context.Context, command string) error {
	steps, ok := Pipelines[command]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
	cfg := w.Config
	w.ui().Info("Starting build and deployment process...")
	w.ui().Info("Project ID: " + cfg.ProjectID)
	w.ui().Info("Region: " + cfg.Region)
	w.ui().Info("Version: " + cfg.Version)

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.Run(w, ctx); err != nil {
			return err
		}
	}
	return nil
}
