// Where: deploy/internal/usecase/pipeline/images.go
// What: Image build/push and registry existence verification.
// Why: Correlate every service image with the invocation's version tag.
package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// BuildAndPushImages builds each service image tagged with the version and
// latest, then pushes both tags. Services are processed sequentially in
// configuration order and the first failure stops the loop.
func (w Workflow) BuildAndPushImages(ctx context.Context) error {
	w.ui().Info("Building and pushing Docker images...")
	cfg := w.Config
	for _, svc := range cfg.Services {
		imageTag := cfg.ImageRef(svc.Name, cfg.Version)
		imageLatest := cfg.ImageRef(svc.Name, "latest")

		w.ui().Info(fmt.Sprintf("Building %s image...", svc.Name))
		if err := w.run(ctx, cfg.RootDir,
			"docker", "build", "-t", imageTag, "-t", imageLatest, "-f", svc.Dockerfile, "."); err != nil {
			return fmt.Errorf("build %s image: %w", svc.Name, err)
		}

		w.ui().Info(fmt.Sprintf("Pushing %s image...", svc.Name))
		for _, ref := range []string{imageTag, imageLatest} {
			if err := w.run(ctx, cfg.RootDir, "docker", "push", ref); err != nil {
				return fmt.Errorf("push %s: %w", ref, err)
			}
		}
		w.reportImage(ctx, imageTag)
		w.ui().Success(fmt.Sprintf("%s image pushed successfully", svc.Name))
	}
	return nil
}

func (w Workflow) reportImage(ctx context.Context, ref string) {
	if w.ImageID == nil {
		return
	}
	id, err := w.ImageID(ctx, ref)
	if err != nil {
		w.ui().Warn(fmt.Sprintf("Could not inspect local image %s: %v", ref, err))
		return
	}
	w.ui().Item("IMAGE_ID", id)
}

// EnsureImagesExist checks the registry for the version tag of every
// service. A failed query counts as missing. All services are checked
// before reporting.
func (w Workflow) EnsureImagesExist(ctx context.Context) error {
	cfg := w.Config
	var missing []string
	for _, svc := range cfg.Services {
		out, err := w.runOutput(ctx, cfg.RootDir,
			"gcloud", "artifacts", "docker", "images", "list", cfg.ImageRepo(svc.Name),
			"--include-tags", "--format=value(tags)")
		if err != nil || !slices.Contains(ParseTags(string(out)), cfg.Version) {
			missing = append(missing, svc.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	w.ui().Warn(fmt.Sprintf("Images missing for tag '%s': %s", cfg.Version, strings.Join(missing, " ")))
	w.ui().Warn("Build and push images first. Try: mud-deploy images-only")
	return fmt.Errorf("%w '%s': %s", ErrImagesMissing, cfg.Version, strings.Join(missing, " "))
}

// ParseTags splits `value(tags)` output, one image per line with
// comma-separated tags, into a flat list of non-empty tags.
func ParseTags(output string) []string {
	var tags []string
	for _, line := range strings.Split(output, "\n") {
		for _, tag := range strings.Split(line, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
	}
	return tags
}
