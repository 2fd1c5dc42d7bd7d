// Where: deploy/cmd/mud-deploy/main.go
// What: CLI entrypoint.
// Why: Run deployment commands with signal-aware cancellation.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fishgills/mud/deploy/internal/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := command.Run(os.Args[1:], buildDependencies(ctx))
	stop()
	os.Exit(code)
}
