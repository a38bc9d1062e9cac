// cmd/gauge/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gauge <config.yaml>")
		os.Exit(2)
	}

	// .env is optional; real environment wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "env load failed: %v\n", err)
		os.Exit(1)
	}

	app, cleanup, err := InitApp(ConfigPath(os.Args[1]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		app.log.Error().Err(err).Msg("gauge stopped")
		cleanup()
		os.Exit(1)
	}
	app.log.Info().Msg("gauge stopped")
}
