// Where: deploy/internal/infra/cloudrun/services.go
// What: Cloud Run Admin API service listing.
// Why: Report live service URLs after a deployment.
package cloudrun

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"

	run "cloud.google.com/go/run/apiv2"
	"cloud.google.com/go/run/apiv2/runpb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// ServiceInfo is a deployed Cloud Run service.
type ServiceInfo struct {
	Name string
	URI  string
}

// Lister lists Cloud Run services in one project location.
type Lister interface {
	ListServices(ctx context.Context, projectID, region string) ([]ServiceInfo, error)
	Close() error
}

// AdminClient implements Lister with the Cloud Run Admin API v2.
type AdminClient struct {
	services *run.ServicesClient
}

// NewAdminClient creates a REST Admin API client using application default
// credentials unless opts say otherwise.
func NewAdminClient(ctx context.Context, opts ...option.ClientOption) (*AdminClient, error) {
	services, err := run.NewServicesRESTClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create cloud run client: %w", err)
	}
	return &AdminClient{services: services}, nil
}

// ListServices returns the services in projects/<projectID>/locations/<region>
// sorted by name.
func (c *AdminClient) ListServices(ctx context.Context, projectID, region string) ([]ServiceInfo, error) {
	it := c.services.ListServices(ctx, &runpb.ListServicesRequest{
		Parent: fmt.Sprintf("projects/%s/locations/%s", projectID, region),
	})
	var result []ServiceInfo
	for {
		svc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list cloud run services: %w", err)
		}
		result = append(result, ServiceInfo{
			Name: path.Base(svc.GetName()),
			URI:  svc.GetUri(),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Close releases the underlying connection.
func (c *AdminClient) Close() error {
	return c.services.Close()
}
