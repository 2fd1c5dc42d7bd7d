// Where: deploy/internal/infra/docker/images.go
// What: Docker Engine queries for locally built images.
// Why: Report the image ID behind each pushed tag without shelling out.
package docker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

var errImageNotFound = errors.New("image not found")

// Client defines the subset of Docker SDK methods used by this package.
type Client interface {
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	Close() error
}

// NewClient constructs a Docker SDK client using environment defaults.
func NewClient() (Client, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return dockerClient, nil
}

// LocalImageID returns the short ID of the local image tagged ref.
func LocalImageID(ctx context.Context, c Client, ref string) (string, error) {
	images, err := c.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", ref)),
	})
	if err != nil {
		return "", fmt.Errorf("list images: %w", err)
	}
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == ref {
				return shortID(img.ID), nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", errImageNotFound, ref)
}

func shortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
