package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/desertthunder/hottest100/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadDotEnv(".env"); err != nil {
		logger.Warn("ignoring .env", "error", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "hottest100",
		Usage:    "Turn the Triple J Hottest 100 song list into Spotify playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		var missing *shared.MissingConfigError
		if errors.As(err, &missing) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", missing)
		} else {
			logger.Errorf("application error: %v", err)
		}
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process exit status.
// Missing credentials exit with 1; every other failure exits with 2.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var missing *shared.MissingConfigError
	if errors.As(err, &missing) {
		return 1
	}
	return 2
}
