// Where: deploy/internal/infra/dbprobe/probe.go
// What: Database readiness probe through the local Cloud SQL proxy.
// Why: Surface a proxy that is not accepting connections before migrations start.
package dbprobe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

var errNotReady = errors.New("database not ready")

// PingFunc opens a connection to dsn and verifies it responds.
type PingFunc func(ctx context.Context, dsn string) error

// Ping connects with pgx and issues a ping.
func Ping(ctx context.Context, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = conn.Close(context.Background()) }()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Waiter polls a database until it answers or the timeout elapses.
type Waiter struct {
	Ping     PingFunc
	Timeout  time.Duration
	Interval time.Duration
}

// NewWaiter returns a Waiter using pgx with a one second poll interval.
func NewWaiter(timeout time.Duration) Waiter {
	return Waiter{Ping: Ping, Timeout: timeout, Interval: time.Second}
}

// Wait returns nil on the first successful ping. Each attempt is bounded by
// the remaining time; the last ping error is wrapped on timeout.
func (w Waiter) Wait(ctx context.Context, dsn string) error {
	ping := w.Ping
	if ping == nil {
		ping = Ping
	}
	interval := w.Interval
	if interval <= 0 {
		interval = time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()

	var lastErr error
	for {
		if lastErr = ping(ctx, dsn); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w after %s: %w", errNotReady, w.Timeout, lastErr)
		case <-time.After(interval):
		}
	}
}
