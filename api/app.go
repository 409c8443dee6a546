package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"agriforecast/forms"
	"agriforecast/predict"
)

type App struct {
	cfg       Config
	store     Store
	predictor *predict.Client
	routes    forms.Routes
	log       zerolog.Logger
}

func newApp(ctx context.Context, cfg Config, logger zerolog.Logger) (*App, error) {
	routes, err := forms.RoutesByName(cfg.PredictorRoute)
	if err != nil {
		return nil, err
	}
	store, err := newMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("mongo: %w", err)
	}

	predictor := predict.NewClient(cfg.PredictorURL)
	predictor.Logger = logger.With().Str("component", "predict").Logger()

	return &App{
		cfg:       cfg,
		store:     store,
		predictor: predictor,
		routes:    routes,
		log:       logger,
	}, nil
}

func (a *App) close(ctx context.Context) { _ = a.store.Close(ctx) }
