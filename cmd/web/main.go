// Package main is the entry point for the pasteshare web UI.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/roguepikachu/pasteshare/internal/apiclient"
	"github.com/roguepikachu/pasteshare/internal/config"
	"github.com/roguepikachu/pasteshare/internal/data"
	"github.com/roguepikachu/pasteshare/internal/http/handler"
	"github.com/roguepikachu/pasteshare/internal/http/router"
	"github.com/roguepikachu/pasteshare/internal/metrics"
	"github.com/roguepikachu/pasteshare/internal/service"
	"github.com/roguepikachu/pasteshare/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.InitLogging()
	config.InitConf()
	cfg := config.Conf

	settings, closeSettings := data.MustSettingRepository(ctx, cfg)
	defer closeSettings()

	clock := service.NewTestClockService(settings, service.RealClock{})
	apiMetrics := metrics.NewAPIMetrics()
	client := data.NewAPIClient(cfg,
		apiclient.WithTestClock(clock),
		apiclient.WithObserver(apiMetrics.Observe),
	)
	if hint := client.Hint(); hint != "" {
		logger.Warn(ctx, "%s", hint)
	}

	pastes := handler.NewPasteHandler(func(p apiclient.Page) handler.PasteClient {
		return client.ForPage(p)
	}, cfg.PublicOrigin)

	// Without a base url or a public origin the API location is only known per request.
	var apiPinger handler.Pinger
	if client.BaseURL() != "" || cfg.PublicOrigin != "" {
		apiPinger = handler.APIPinger(client.CheckHealth)
	}

	r := router.NewRouter(router.Deps{
		Pastes:  pastes,
		Health:  handler.NewHealthHandler(apiPinger, settings),
		Metrics: apiMetrics.Handler(),
		SSL:     cfg.SSL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info(ctx, "listening on %s (api base %q, settings store %s)", srv.Addr, client.BaseURL(), cfg.SettingsStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "shutdown: %v", err)
	}
}
