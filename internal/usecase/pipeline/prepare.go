// Where: deploy/internal/usecase/pipeline/prepare.go
// What: Prerequisite check, registry auth, and workspace sync steps.
// Why: Fail before any build when the toolchain is incomplete.
package pipeline

import (
	"context"
	"fmt"
)

// RequiredTools are checked on PATH in this order.
var RequiredTools = []string{"gcloud", "docker", "terraform", "npx"}

// CheckPrerequisites fails on the first required tool missing from PATH.
func (w Workflow) CheckPrerequisites(_ context.Context) error {
	w.ui().Info("Checking prerequisites...")
	lookPath := w.lookPath()
	for _, tool := range RequiredTools {
		if _, err := lookPath(tool); err != nil {
			return fmt.Errorf("%w: '%s'", ErrMissingPrerequisite, tool)
		}
	}
	w.ui().Info("Prerequisites check completed")
	return nil
}

// ConfigureDocker authorizes the local docker client against the
// region-scoped Artifact Registry.
func (w Workflow) ConfigureDocker(ctx context.Context) error {
	w.ui().Info("Configuring Docker for Artifact Registry...")
	if err := w.run(ctx, w.Config.RootDir,
		"gcloud", "auth", "configure-docker", w.Config.RegistryHost(), "--quiet"); err != nil {
		return fmt.Errorf("configure docker: %w", err)
	}
	return nil
}

// SyncWorkspace regenerates Nx workspace files before container builds.
// Compilation itself happens inside each Dockerfile.
func (w Workflow) SyncWorkspace(ctx context.Context) error {
	w.ui().Info("Syncing Nx workspace before Docker builds...")
	if err := w.run(ctx, w.Config.RootDir, "npx", "nx", "sync"); err != nil {
		return fmt.Errorf("sync workspace: %w", err)
	}
	w.ui().Info("Nx workspace synced. Skipping local Nx build; builds are handled in Dockerfiles.")
	return nil
}
