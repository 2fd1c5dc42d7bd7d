// Where: deploy/internal/usecase/pipeline/endpoints.go
// What: Endpoint propagation from deployed service URLs to a dependent service.
// Why: The chat-bot service discovers its GraphQL backends through env vars.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/fishgills/mud/deploy/internal/domain/endpoint"
)

// UpdateEndpoints resolves the source service URLs and updates the target
// service's environment. Unresolvable URLs skip the update with a warning.
func (w Workflow) UpdateEndpoints(ctx context.Context) error {
	cfg := w.Config
	target := cfg.Endpoints.Target
	w.ui().Info(fmt.Sprintf("Updating %s endpoint environment variables from actual Cloud Run service URLs...", target))

	out, err := w.runOutput(ctx, cfg.RootDir,
		"gcloud", "run", "services", "list",
		"--project="+cfg.ProjectID,
		"--format=csv[no-heading](SERVICE,URL)")
	if err != nil {
		return fmt.Errorf("list cloud run services: %w", err)
	}

	urls, missing := endpoint.ResolveSources(string(out), cfg.Endpoints.Sources)
	if len(missing) > 0 {
		w.ui().Warn(fmt.Sprintf("Could not retrieve %s service URLs. Skipping endpoint update.", strings.Join(missing, "/")))
		return nil
	}

	values, err := endpoint.Render(cfg.Endpoints.Vars, urls)
	if err != nil {
		return err
	}
	w.ui().Info("Resolved endpoints:")
	for _, v := range values {
		w.ui().Item(v.Name, v.Value)
	}

	envVars := endpoint.UpdateEnvVars(values)
	if envVars == "" {
		w.ui().Warn("No endpoint variables are marked for update.")
		return nil
	}
	if err := w.run(ctx, cfg.RootDir,
		"gcloud", "run", "services", "update", target,
		"--region="+cfg.Region,
		"--project="+cfg.ProjectID,
		"--update-env-vars="+envVars); err != nil {
		return fmt.Errorf("update %s env vars: %w", target, err)
	}
	w.ui().Success(fmt.Sprintf("%s environment variables updated.", target))
	return nil
}
