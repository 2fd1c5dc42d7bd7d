// Where: deploy/internal/usecase/pipeline/summary.go
// What: Post-deployment service summary.
// Why: Show operators where each service landed after a full pipeline.
package pipeline

import (
	"context"
	"fmt"
)

// PrintSummary lists deployed services with their URLs. When the service
// listing is unavailable the configured static summary is printed.
func (w Workflow) PrintSummary(ctx context.Context) error {
	w.ui().Success("Deployment completed successfully!")
	cfg := w.Config

	if w.ListServices != nil {
		services, err := w.ListServices(ctx, cfg.ProjectID, cfg.Region)
		if err == nil && len(services) > 0 {
			for _, svc := range services {
				w.ui().ItemPlain(fmt.Sprintf("%s: %s", svc.Name, svc.URI))
			}
			return nil
		}
		if err != nil {
			w.ui().Warn(fmt.Sprintf("Could not list Cloud Run services: %v", err))
		}
	}
	for _, line := range cfg.Summary {
		w.ui().ItemPlain(line)
	}
	return nil
}
