package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/nodevault/internal/buildinfo"
	"github.com/dmitrijs2005/nodevault/internal/client/cli"
	"github.com/dmitrijs2005/nodevault/internal/client/config"
	"github.com/dmitrijs2005/nodevault/internal/common"
	"github.com/dmitrijs2005/nodevault/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger, err := logging.NewTextLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "err", err)
		return 1
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		if errors.Is(err, common.ErrCancelled) || errors.Is(err, context.Canceled) {
			fmt.Println("Cancelled.")
			return 0
		}
		logger.Error(ctx, "vault not unlocked", "err", err)
		return 1
	}
	return 0
}
