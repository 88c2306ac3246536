package main

import (
	"context"
	"fmt"

	"github.com/dtroode/recipai/internal/api/client"
	"github.com/dtroode/recipai/internal/config"
	"github.com/dtroode/recipai/internal/logger"
	"github.com/dtroode/recipai/internal/metrics"
	"github.com/dtroode/recipai/internal/model"
	"github.com/dtroode/recipai/internal/repository/postgres"
	"github.com/dtroode/recipai/internal/service"
	"github.com/dtroode/recipai/internal/storage/file"
	miniostore "github.com/dtroode/recipai/internal/storage/minio"
	redisstore "github.com/dtroode/recipai/internal/storage/redis"
	"github.com/dtroode/recipai/internal/token"
	"github.com/dtroode/recipai/internal/transport"
)

// app is one running client: a session, its pantry and its shopping list.
type app struct {
	cfg     *config.Config
	logger  *logger.Logger
	metrics *metrics.Collector

	session  *service.Session
	pantry   *service.Pantry
	shopping *service.Shopping

	closeStore  func() error
	interactive bool
}

func newApp(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*app, error) {
	var sl model.SecurityLayer
	if cfg.API.CACertFile != "" {
		sl = transport.NewTLSTransport(cfg.API.CACertFile)
	} else {
		sl = transport.NewPlainTransport()
	}
	rt, err := sl.RoundTripper()
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	collector := metrics.New()
	api, err := client.New(client.Options{
		BaseURL:   cfg.API.URL,
		Transport: rt,
		Timeout:   cfg.API.Timeout,
		Metrics:   collector,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens := service.NewTokenService(token.NewJWT(), store, logger)
	session := service.NewSession(api, tokens, logger)
	session.Initialize(ctx)

	pantry := service.NewPantry(api, store, session, logger)
	pantry.Restore(ctx)

	return &app{
		cfg:        cfg,
		logger:     logger,
		metrics:    collector,
		session:    session,
		pantry:     pantry,
		shopping:   service.NewShopping(api, session, logger, collector, cfg.Deals.Concurrency),
		closeStore: closeStore,
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (model.Store, func() error, error) {
	noop := func() error { return nil }
	ns := cfg.Store.Namespace

	switch cfg.Store.Driver {
	case config.DriverRedis:
		s, err := redisstore.New(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, ns)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis store: %w", err)
		}
		return s, s.Close, nil
	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres store: %w", err)
		}
		return postgres.NewStateRepository(conn, ns), conn.Close, nil
	case config.DriverMinio:
		c, err := miniostore.NewClient(ctx, miniostore.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		}, ns)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize object store: %w", err)
		}
		return c, noop, nil
	default:
		s, err := file.New(cfg.Store.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		return s, noop, nil
	}
}

// close aborts running deal lookups, pushes metrics when configured and
// releases the store.
func (a *app) close(ctx context.Context) {
	a.shopping.CancelAll()

	if url := a.cfg.Metrics.PushgatewayURL; url != "" {
		if err := a.metrics.Push(ctx, url, a.cfg.Metrics.Job); err != nil {
			a.logger.Warn("failed to push metrics", "error", err)
		}
	}

	if err := a.closeStore(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}
