package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/VladimirStojanovski/MealStack/internal/repositories"
	"github.com/VladimirStojanovski/MealStack/internal/services"
	"github.com/VladimirStojanovski/MealStack/internal/session"
	"github.com/VladimirStojanovski/MealStack/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	for _, arg := range os.Args[1:] {
		if arg == "--verbose" {
			shared.SetLogLevel(logger, log.DebugLevel)
		}
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var sessionManager *session.Manager
	var history *repositories.DownloadRepository

	api := services.NewAPIService(config.API.BaseURL, nil).WithRateLimit(config.API.RatePerSecond)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Warn("local database unavailable, session will not persist", "error", err)
	} else {
		defer db.Close()
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		store := repositories.NewSessionRepository(db)
		history = repositories.NewDownloadRepository(db)
		sessionManager = session.NewManager(store, services.NewAuthService(api), logger)
		sessionManager.Initialize()
		api.WithTokenSource(sessionManager.TokenSource())
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		API:     api,
		Session: sessionManager,
		History: history,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:    "mealstack",
		Usage:   "Manage recipes and bulk video downloads from the MealStack backend",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
