package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/etuition/etuition-api/config"
	"github.com/etuition/etuition-api/pkg/database"
	"github.com/etuition/etuition-api/pkg/logger"
)

// app holds what a command booted. close releases it in reverse order.
type app struct {
	db      *database.DB
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// boot loads config, sets up logging and connects to MongoDB.
func boot(ctx context.Context) (*app, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger.Setup(config.AppEnv(), os.Stdout)

	db, err := database.Connect(ctx, config.MongoURI(), config.MongoDatabase())
	if err != nil {
		return nil, err
	}
	a := &app{db: db}
	a.closers = append(a.closers, func() {
		if err := db.Close(context.Background()); err != nil {
			logger.Warn("mongo disconnect failed", "error", err)
		}
	})

	if config.LogToMongo() {
		h := logger.NewMongoHandler(db.Collection(database.Logs), slog.LevelInfo)
		logger.Setup(config.AppEnv(), os.Stdout, h)
		a.closers = append(a.closers, h.Close)
	}
	return a, nil
}
