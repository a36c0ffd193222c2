package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "goal-planner",
		Usage: "Turn career goals into weekly plans and keep them on track",
		Flags: globalFlags(),
		Commands: []*cli.Command{
			serveCommand(),
			showCommand(),
			migrateCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
