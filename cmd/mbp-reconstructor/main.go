package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/muhammadchandra19/mbp-reconstruction/internal/bootstrap"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/config"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/logger"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/util"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) < 2 || args[1] == "" {
		fmt.Fprintf(os.Stderr, "usage: %s <input.csv>\n", filepath.Base(args[0]))
		return 1
	}
	inputPath := args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = util.WithRunID(ctx, "")
	ctx = util.WithInputPath(ctx, inputPath)

	b, err := bootstrap.Init(ctx, bootstrap.BootstrapConfig{
		Config:    cfg,
		Logger:    log,
		InputPath: inputPath,
	})
	if err != nil {
		log.ErrorContext(ctx, err, logger.NewField("action", "bootstrap"))
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	runErr := b.Engine.Run(ctx)
	if runErr != nil {
		log.ErrorContext(ctx, runErr, logger.NewField("action", "run"))
	}

	if err := b.Close(); err != nil {
		log.ErrorContext(ctx, err, logger.NewField("action", "close"))
		if runErr == nil {
			runErr = err
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", runErr)
		return 1
	}

	log.InfoContext(ctx, "output written", logger.NewField("path", cfg.Recon.OutputPath))
	return 0
}
