package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/storefront-console/internal/apiclient"
	"github.com/rogerio-castellano/storefront-console/internal/auth"
	"github.com/rogerio-castellano/storefront-console/internal/config"
	"github.com/rogerio-castellano/storefront-console/internal/dashboard"
	"github.com/rogerio-castellano/storefront-console/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront-console/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront-console/internal/http/router"
	"github.com/rogerio-castellano/storefront-console/internal/logger"
	"github.com/rogerio-castellano/storefront-console/internal/media"
	"github.com/rogerio-castellano/storefront-console/internal/metrics"
	"github.com/rogerio-castellano/storefront-console/internal/redissvc"
	"github.com/rogerio-castellano/storefront-console/internal/resources"
	"github.com/rogerio-castellano/storefront-console/internal/session"
	"github.com/rogerio-castellano/storefront-console/internal/web"
	"go.uber.org/zap"
)

// @title Storefront Console
// @version 1.0
// @description JSON endpoints of the storefront admin console.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	var recorder *metrics.Recorder
	var clientOpts []apiclient.Option
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()
		clientOpts = append(clientOpts, apiclient.WithObserver(recorder))
	}

	api, err := apiclient.New(apiclient.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.App.Name,
	}, clientOpts...)
	if err != nil {
		log.Fatal("could not create API client", zap.Error(err))
	}

	store, closeStore, err := openSessionStore(ctx, cfg)
	if err != nil {
		log.Fatal("could not open session store", zap.Error(err))
	}
	defer closeStore()

	uploader, err := media.New(ctx, cfg.Media)
	if err != nil {
		log.Fatal("could not configure media uploads", zap.Error(err))
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal("could not parse templates", zap.Error(err))
	}

	catalog := dashboard.Catalog{
		Categories: resources.Categories(),
		Products:   resources.Products(),
		Users:      resources.Users(),
		Orders:     resources.Orders(cfg.Dashboard.LookupConcurrency),
	}
	registry := dashboard.NewRegistry(catalog, api, cfg.Dashboard.IdleTimeout)
	go registry.StartCleanupLoop(ctx, time.Minute)

	visitors := rl.NewVisitors(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go visitors.StartVisitorCleanupLoop(ctx, time.Minute, 3*time.Minute)

	handlers.SetAPI(api)
	handlers.SetCatalog(catalog)
	handlers.SetForms(auth.NewForms(api, store))
	handlers.SetRegistry(registry)
	handlers.SetRenderer(renderer)
	handlers.SetUploader(uploader)

	r := router.NewRouter(router.Options{
		Logger:        log,
		Sessions:      store,
		CookieName:    cfg.Session.CookieName,
		SecureCookies: cfg.IsProduction(),
		Visitors:      visitors,
		Metrics:       recorder,
		Swagger:       cfg.Swagger.Enabled,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutting down", zap.Error(err))
		}
	}()

	log.Info("server running",
		zap.String("addr", srv.Addr),
		zap.String("api", api.BaseURL()),
		zap.String("sessions", cfg.Session.Backend),
		zap.String("media", cfg.Media.Provider),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server stopped")
}

// openSessionStore builds the configured session backend and returns the
// function that releases it.
func openSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.Session.Backend {
	case config.SessionFile:
		s, err := session.NewFileStore(cfg.Session.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case config.SessionRedis:
		rs, err := redissvc.Connect(ctx, redissvc.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(rs.Rdb(), cfg.Session.RedisPrefix), func() { rs.Close() }, nil
	case config.SessionMemory:
		return session.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownSession, cfg.Session.Backend)
}
