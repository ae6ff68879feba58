package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/amx/internal/shared"
	"github.com/urfave/cli/v3"
)

const configFile = "config.toml"

func main() {
	config := shared.DefaultConfig()
	if _, err := os.Stat(configFile); err == nil {
		loaded, err := shared.LoadConfig(configFile)
		if err != nil {
			shared.NewLogger(nil).Fatalf("failed to load %s: %v", configFile, err)
		}
		config = loaded
	}

	logger := shared.NewLogger(shared.NewLogWriter(config.Log))
	if level, err := log.ParseLevel(config.Log.Level); err == nil {
		shared.SetLogLevel(logger, level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:    "amx",
		Usage:   "Import Spotify playlist and album exports into Apple Music",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		runner.Close()
		if errors.Is(err, shared.ErrMissingArgument) {
			logger.Error(err)
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
