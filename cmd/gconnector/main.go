// Command gconnector connects a Google account and opens the Drive picker.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
