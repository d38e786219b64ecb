package main

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-matrix/model"
	"github.com/sheikhrachel/go-gol-matrix/utils"
)

// loadConfig reads the config file, falling back to defaults when it is missing
func loadConfig(path string, intervalMS int) (utils.Config, error) {
	config, err := utils.LoadConfig(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return config, err
		}
		config = utils.DefaultConfig()
	}

	if intervalMS > 0 {
		config.IntervalMS = intervalMS
	}
	return config, config.Validate()
}

// newLogger picks the log destination. The terminal belongs to the screen
// while it runs, so output there is only written in headless mode.
func newLogger(headless bool, path string) (*log.Logger, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "[newLogger] failed to open log file: %+v", path)
		}
		return log.New(f, "", log.LstdFlags), func() { _ = f.Close() }, nil
	}

	var out io.Writer = io.Discard
	if headless {
		out = os.Stderr
	}
	return log.New(out, "", log.LstdFlags), func() {}, nil
}

// initializeEngine sizes the board to the sink and wires logging
func initializeEngine(sink model.PixelSink, config utils.Config, logger *log.Logger) *model.Engine {
	engine := model.NewEngine(sink.Width(), sink.Height(), config, nil)
	engine.SetLogger(logger)
	return engine
}

// displayGameInfo logs the initial game information
func displayGameInfo(logger *log.Logger, config utils.Config, engine *model.Engine) {
	logger.Printf("grid: %dx%d | torus: %v | parallel: %v | initial living cells: %d",
		engine.Width(), engine.Height(), config.Torus, config.UseParallel, engine.Population())
	logger.Printf("press q, Esc or Ctrl+C to exit")
}

// displayFinalStats logs a summary once the run loop has returned
func displayFinalStats(logger *log.Logger, engine *model.Engine) {
	stats := engine.Stats()
	logger.Printf("final stats: %d generations in %.1f seconds, %d reseeds",
		engine.Generation(), stats.Runtime().Seconds(), stats.Reseeds)
	logger.Printf("average: %.1f gen/sec, %.1f avg population, stagnant at exit: %v",
		stats.GenerationsPerSecond, stats.AveragePopulation, engine.Stagnant())
}
