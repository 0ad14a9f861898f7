package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/vidx/internal/repositories"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("VIDX_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	config, err := shared.ResolveConfig(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		config = shared.DefaultConfig()
	}
	shared.SetLogLevel(logger, shared.ParseLevel(config.Log.Level))

	opts := RunnerOpts{Config: config, ConfigPath: configPath, Logger: logger}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Warn("session store unavailable", "path", config.Database.Path, "error", err)
	} else {
		defer db.Close()
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			logger.Warn("session store migrations failed, run `vidx setup database`", "error", err)
		} else {
			opts.Sessions = repositories.NewSessionRepository(db)
		}
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "vidx",
		Usage:    "Browse, react to, and organize videos from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		logger.Error("application error", "error", err)
		if db != nil {
			db.Close()
		}
		os.Exit(1)
	}
}
