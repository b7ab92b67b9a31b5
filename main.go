package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/rtm0/meteogram/internal/meteogram"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := meteogram.DefaultConfig()
	if err := meteogram.Run(ctx, logger, cfg); err != nil {
		logger.Error("Could not render the meteogram", "err", err)
		stop()
		os.Exit(1)
	}
}
