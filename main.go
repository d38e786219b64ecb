package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol-matrix/model"
)

func main() {
	var (
		configPath = flag.String("config", "config.json", "path to a JSON configuration file")
		intervalMS = flag.Int("m", 0, "tick interval in milliseconds (overrides the config file)")
		headless   = flag.Bool("headless", false, "simulate into an in-memory frame instead of the terminal")
		logPath    = flag.String("log", "", "write log output to this file")
	)
	flag.Parse()

	if err := run(*configPath, *intervalMS, *headless, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "go-gol-matrix: %+v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, intervalMS int, headless bool, logPath string) error {
	config, err := loadConfig(configPath, intervalMS)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(headless, logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	// Handle Ctrl+C and termination gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if headless {
		sink := model.NewFrameBuffer(config.Width, config.Height)
		engine := initializeEngine(sink, config, logger)
		displayGameInfo(logger, config, engine)
		err = engine.Run(ctx, sink)
		displayFinalStats(logger, engine)
		return err
	}

	sink, err := model.NewTerminalSink()
	if err != nil {
		return err
	}
	engine := initializeEngine(sink, config, logger)
	displayGameInfo(logger, config, engine)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		sink.WatchKeys(cancel)
		return nil
	})
	eg.Go(func() error {
		defer sink.Close()
		return engine.Run(ctx, sink)
	})
	err = eg.Wait()

	displayFinalStats(logger, engine)
	return err
}
