package cloudrun

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *AdminClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewAdminClient(context.Background(),
		option.WithEndpoint(server.URL),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestListServicesParsesNamesAndURIs(t *testing.T) {
	var requestedPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"services":[` +
			`{"name":"projects/p/locations/us-central1/services/mud-world","uri":"https://world.example"},` +
			`{"name":"projects/p/locations/us-central1/services/mud-dm","uri":"https://dm.example"}` +
			`]}`))
	})

	services, err := client.ListServices(context.Background(), "p", "us-central1")
	require.NoError(t, err)

	assert.Equal(t, "/v2/projects/p/locations/us-central1/services", requestedPath)
	assert.Equal(t, []ServiceInfo{
		{Name: "mud-dm", URI: "https://dm.example"},
		{Name: "mud-world", URI: "https://world.example"},
	}, services)
}

func TestListServicesReportsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`))
	})

	_, err := client.ListServices(context.Background(), "p", "us-central1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list cloud run services")
}
