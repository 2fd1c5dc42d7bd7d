package docker

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	images  []image.Summary
	err     error
	options image.ListOptions
}

func (f *fakeClient) ImageList(_ context.Context, options image.ListOptions) ([]image.Summary, error) {
	f.options = options
	return f.images, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestLocalImageIDMatchesTag(t *testing.T) {
	ref := "us-central1-docker.pkg.dev/p/mud-registry/dm:abc1234"
	client := &fakeClient{images: []image.Summary{
		{ID: "sha256:1111111111111111", RepoTags: []string{"other:latest"}},
		{ID: "sha256:0123456789abcdef0123", RepoTags: []string{ref, "dm:latest"}},
	}}

	id, err := LocalImageID(context.Background(), client, ref)
	require.NoError(t, err)
	assert.Equal(t, "0123456789ab", id)
	assert.Equal(t, []string{ref}, client.options.Filters.Get("reference"))
}

func TestLocalImageIDNotFound(t *testing.T) {
	client := &fakeClient{}

	_, err := LocalImageID(context.Background(), client, "dm:missing")
	require.ErrorIs(t, err, errImageNotFound)
}

func TestLocalImageIDListError(t *testing.T) {
	client := &fakeClient{err: errors.New("daemon down")}

	_, err := LocalImageID(context.Background(), client, "dm:x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list images")
}

func TestShortIDKeepsShortValues(t *testing.T) {
	assert.Equal(t, "abc", shortID("sha256:abc"))
}
