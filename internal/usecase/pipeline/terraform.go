// Where: deploy/internal/usecase/pipeline/terraform.go
// What: Terraform plan/apply with the database password injected.
// Why: Infrastructure and endpoint propagation ship together.
package pipeline

import (
	"context"
	"fmt"

	"github.com/fishgills/mud/deploy/internal/infra/tfvars"
)

// TerraformDeploy writes the database password into the tfvars file, runs
// plan and an auto-approved apply, then updates service endpoints.
func (w Workflow) TerraformDeploy(ctx context.Context) error {
	w.ui().Info("Deploying infrastructure with Terraform...")
	cfg := w.Config

	password, err := w.accessSecret(ctx, cfg.Secrets.DBPassword)
	if err != nil {
		return err
	}
	if err := tfvars.UpdateFile(cfg.VarsFilePath(), password); err != nil {
		return fmt.Errorf("update %s: %w", cfg.VarsFilePath(), err)
	}

	vars := w.terraformVars()
	w.ui().Info("Planning Terraform deployment...")
	if err := w.run(ctx, cfg.TerraformDir(), "terraform", append([]string{"plan"}, vars...)...); err != nil {
		return fmt.Errorf("terraform plan: %w", err)
	}
	w.ui().Info("Applying Terraform changes...")
	applyArgs := append(append([]string{"apply"}, vars...), "-auto-approve")
	if err := w.run(ctx, cfg.TerraformDir(), "terraform", applyArgs...); err != nil {
		return fmt.Errorf("terraform apply: %w", err)
	}
	w.ui().Success("Infrastructure deployed successfully")

	return w.UpdateEndpoints(ctx)
}

func (w Workflow) terraformVars() []string {
	return []string{
		"-var=project_id=" + w.Config.ProjectID,
		"-var=region=" + w.Config.Region,
		"-var=image_version=" + w.Config.Version,
	}
}
