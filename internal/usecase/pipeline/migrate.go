// Where: deploy/internal/usecase/pipeline/migrate.go
// What: Prisma migrations through a scoped Cloud SQL proxy process.
// Why: The proxy must be stopped on every exit path once it has started.
package pipeline

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/fishgills/mud/deploy/internal/config"
	"github.com/fishgills/mud/deploy/internal/infra/process"
	"github.com/fishgills/mud/deploy/internal/infra/sqlproxy"
)

const (
	migrationQuery = "schema=public&sslmode=disable&connect_timeout=60"
	probeQuery     = "sslmode=disable&connect_timeout=5"
)

// RunMigrations fetches the database password, starts the proxy, waits the
// settle delay, and runs `prisma migrate deploy` with DATABASE_URL set for
// that command only. The proxy is stopped whether or not migration succeeds.
func (w Workflow) RunMigrations(ctx context.Context) error {
	w.ui().Info("Running database migrations...")
	cfg := w.Config
	m := cfg.Migration
	if w.Runner == nil {
		return errRunnerNotConfigured
	}

	password, err := w.accessSecret(ctx, cfg.Secrets.DBPassword)
	if err != nil {
		return err
	}

	proxyPath := cfg.ProxyPath()
	if w.EnsureProxy != nil {
		downloaded, err := w.EnsureProxy(ctx, proxyPath, m.ProxyURL)
		if err != nil {
			return fmt.Errorf("ensure cloud-sql-proxy: %w", err)
		}
		if downloaded {
			w.ui().Info(fmt.Sprintf("cloud-sql-proxy not found, downloaded to %s", proxyPath))
		}
	}

	w.ui().Info("Starting Cloud SQL Proxy...")
	args := sqlproxy.Args(m.Host, m.Port, m.InstanceConnection)
	w.echo(proxyPath, args)
	proxy, err := w.Runner.Start(ctx, cfg.RootDir, proxyPath, args...)
	if err != nil {
		return fmt.Errorf("start cloud-sql-proxy: %w", err)
	}
	defer w.stopProxy(proxy, m.StopTimeout)

	if err := w.sleep()(ctx, m.SettleDelay); err != nil {
		return fmt.Errorf("wait for cloud-sql-proxy: %w", err)
	}
	if w.ProbeDB != nil {
		if err := w.ProbeDB(ctx, connectionURL(m, password, probeQuery).String()); err != nil {
			w.ui().Warn(fmt.Sprintf("Database readiness probe failed, continuing: %v", err))
		}
	}

	databaseURL := connectionURL(m, password, migrationQuery)
	w.ui().Info("Using DATABASE_URL: " + databaseURL.Redacted())
	migrateArgs := []string{"prisma", "migrate", "deploy", "--schema=" + m.Schema}
	w.echo("npx", migrateArgs)
	if err := w.Runner.RunWithEnv(ctx, cfg.RootDir,
		[]string{"DATABASE_URL=" + databaseURL.String()}, "npx", migrateArgs...); err != nil {
		return fmt.Errorf("prisma migrate deploy: %w", err)
	}
	w.ui().Success("Database migrations applied")
	return nil
}

// stopProxy terminates the proxy once, waits up to timeout for it to exit,
// and kills it if it is still running.
func (w Workflow) stopProxy(proxy process.Process, timeout time.Duration) {
	w.ui().Info("Stopping Cloud SQL Proxy...")
	if err := proxy.Terminate(); err != nil {
		w.ui().Warn(fmt.Sprintf("Failed to terminate cloud-sql-proxy: %v", err))
	}
	if waitDone(proxy, timeout) {
		return
	}
	w.ui().Warn(fmt.Sprintf("cloud-sql-proxy did not exit within %s, killing it", timeout))
	if err := proxy.Kill(); err != nil {
		w.ui().Warn(fmt.Sprintf("Failed to kill cloud-sql-proxy: %v", err))
		return
	}
	waitDone(proxy, timeout)
}

func waitDone(proxy process.Process, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-proxy.Done():
		return true
	case <-timer.C:
		return false
	}
}

// connectionURL builds a postgresql:// URL for the proxied database. The
// password is escaped as URL userinfo.
func connectionURL(m config.MigrationConfig, password, query string) *url.URL {
	return &url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(m.User, password),
		Host:     net.JoinHostPort(m.Host, strconv.Itoa(m.Port)),
		Path:     "/" + m.Database,
		RawQuery: query,
	}
}
