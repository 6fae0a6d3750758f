package main

import (
	"context"
	"errors"
	"os"

	"github.com/philosolog/mal-progress-box/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	logger = shared.WithLogger(logger, "run_id", shared.GenerateID())

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("failed to load config.toml, using defaults: %v", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "malbox",
		Usage:    "Publish MyAnimeList progress to a GitHub gist",
		Version:  "1.0.0",
		Flags:    []cli.Flag{configFlag()},
		Commands: runner.register(),
		// Bare `malbox` runs the publish job, so a cron line needs no subcommand.
		Action: runner.Update,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		// Misconfiguration ends the run without publishing, but it is not a
		// crash: scheduled invocations should keep exiting zero.
		if errors.Is(err, shared.ErrInvalidConfig) {
			logger.Errorf("configuration error: %v", err)
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
