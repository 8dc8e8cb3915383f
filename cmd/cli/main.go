package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/agrun/internal/app"
	"github.com/vk/agrun/internal/cli"
)

// main is the entrypoint for the agrun utility.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	if err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(code)
}

// run encapsulates the main application logic for easier testing and error
// handling. It returns the process exit code alongside any startup error.
func run(ctx context.Context, outW, errW io.Writer, args []string) (int, error) {
	config, rest, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return 1, err
	}
	if shouldExit {
		return 0, nil
	}

	agrun, err := app.NewApp(outW, errW, config)
	if err != nil {
		return 1, err
	}

	code := agrun.Run(ctx, rest)
	if ctx.Err() != nil {
		return 130, nil
	}
	return code, nil
}
