// Where: deploy/internal/infra/sqlproxy/sqlproxy.go
// What: Cloud SQL proxy binary provisioning and invocation arguments.
// Why: Migrations reach the managed database through a local proxy.
package sqlproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const downloadTimeout = 5 * time.Minute

var errUnexpectedStatus = errors.New("unexpected download status")

// EnsureBinary downloads the proxy from url into path unless a file already
// exists there. It reports whether a download happened. The binary is
// written through a temporary file so a failed download never leaves a
// partial executable behind.
func EnsureBinary(ctx context.Context, client *http.Client, path, url string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat proxy binary: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create proxy dir: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("create proxy request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("download proxy: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: %s from %s", errUnexpectedStatus, resp.Status, url)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".download-*")
	if err != nil {
		return false, fmt.Errorf("create temp proxy file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return false, fmt.Errorf("write proxy binary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("close proxy binary: %w", err)
	}
	if err := os.Chmod(tmpName, 0o755); err != nil {
		return false, fmt.Errorf("chmod proxy binary: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return false, fmt.Errorf("install proxy binary: %w", err)
	}
	return true, nil
}

// Args returns the proxy command line for listening on host:port and
// forwarding to the instance connection name.
func Args(host string, port int, instance string) []string {
	return []string{
		"--address=" + host,
		"--port=" + strconv.Itoa(port),
		instance,
	}
}
