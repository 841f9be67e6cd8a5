package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/config"
	"github.com/himawari-care/shiftboard/internal/audit"
	"github.com/himawari-care/shiftboard/internal/live"
	"github.com/himawari-care/shiftboard/internal/refdata"
	"github.com/himawari-care/shiftboard/internal/roster"
	"github.com/himawari-care/shiftboard/internal/session"
	"github.com/himawari-care/shiftboard/internal/upstream"
)

// App holds the application dependencies.
type App struct {
	Cfg     *config.Config
	Logger  *zap.Logger
	Storage session.Storage
	Store   *session.Store
	API     *upstream.Client
	State   *roster.State
	RefData *refdata.Service
	Audit   *audit.Store
	Hub     *live.Hub
}

func buildApp() (*App, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var storage session.Storage
	switch cfg.StorageBackend {
	case "redis":
		storage = session.NewRedisStore(config.NewRedisClient(cfg))
	default:
		storage = session.NewFileStore(cfg.StoragePath)
	}

	store := session.NewStore(storage, logger)
	api := upstream.NewClient(cfg.APIBaseURL(), store, cfg.ClientTimeout, logger)
	api.OnUnauthorized = store.HandleUnauthorized
	store.AttachGateway(api)

	auditStore, err := audit.Open(cfg.AuditDSN)
	if err != nil {
		return nil, fmt.Errorf("open audit store: %w", err)
	}

	return &App{
		Cfg:     cfg,
		Logger:  logger,
		Storage: storage,
		Store:   store,
		API:     api,
		State:   roster.NewState(api, logger),
		RefData: refdata.NewService(api, storage, logger),
		Audit:   auditStore,
		Hub:     live.NewHub(logger),
	}, nil
}

func (a *App) Close() {
	if a.Audit != nil {
		a.Audit.Close()
	}
	if a.Logger != nil {
		a.Logger.Sync()
	}
}
