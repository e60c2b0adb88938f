package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"researchbot/pkg/chains"
	"researchbot/pkg/classifier"
	"researchbot/pkg/config"
	"researchbot/pkg/logger"
	"researchbot/pkg/providers"
	"researchbot/pkg/research"
	"researchbot/pkg/search"
)

const lifecycleTimeout = 10 * time.Second

// coreModules are the dependencies shared by every command that answers
// queries.
func coreModules() []fx.Option {
	return []fx.Option{
		config.Module,
		logger.Module,
		classifier.Module,
		search.Module,
		providers.Module,
		chains.Module,
		research.Module,
	}
}

// buildApp starts a short-lived fx app and returns its cleanup function.
// Populate targets are filled before it returns.
func buildApp(opts ...fx.Option) (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), lifecycleTimeout)
	defer cancel()

	app := fx.New(append(opts, fx.NopLogger)...)
	if err := app.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting app: %w", err)
	}

	cleanup := func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), lifecycleTimeout)
		defer stopCancel()
		_ = app.Stop(stopCtx)
	}
	return cleanup, nil
}
