package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"

	"github.com/desertthunder/playlistctl/internal/shared"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env", "error", err)
	}

	fd := os.Stdout.Fd()
	runner := NewRunner(RunnerOpts{
		Logger:      logger,
		Interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.Command{
		Name:     "playlistctl",
		Usage:    "Browse, create and edit playlists on the playlist API",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.configure,
		After:    func(context.Context, *cli.Command) error { return runner.Close() },
		Commands: runner.register(),

		DisableSliceFlagSeparator: true,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
