package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	dispenserservice "drophub/contexts/claim-delivery/dispenser-service"
	"drophub/contexts/claim-delivery/dispenser-service/adapters/claimserver"
	postgresadapter "drophub/contexts/claim-delivery/dispenser-service/adapters/postgres"
	"drophub/contexts/claim-delivery/dispenser-service/adapters/realtime"
	reclaimproofadapter "drophub/contexts/claim-delivery/dispenser-service/adapters/reclaimproof"
	"drophub/contexts/claim-delivery/dispenser-service/application/commands"
	"drophub/internal/platform/auth"
	"drophub/internal/platform/config"
	"drophub/internal/platform/db"
	"drophub/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := dispenserservice.NewModule(dispenserservice.Dependencies{
		Dispensers:    repo,
		Links:         repo,
		Whitelist:     repo,
		Verifications: repo,
		Handles:       repo,
		Clock:         postgresadapter.SystemClock{},
		IDGenerator:   postgresadapter.UUIDGenerator{},
		Verifier:      reclaimproofadapter.NewVerifier(cfg.ReclaimWitnesses),
		Notifier:      realtime.NewNotifier(cfg.SocketServerURL, cfg.SocketServerAPIKey, logger),
		Claims:        claimserver.NewClient(cfg.ClaimServerURL, logger),
		ReclaimApp: commands.ReclaimAppConfig{
			AppID:      cfg.ReclaimAppID,
			AppSecret:  cfg.ReclaimAppSecret,
			ProviderID: cfg.ReclaimProviderID,
		},
		ScanSigPrefix: cfg.ScanSigPrefix,
		ServerURL:     cfg.ServerURL,
		AppURL:        cfg.AppURL,
		Logger:        logger,
	})

	server := httpserver.New(module, auth.NewVerifier(cfg.JWTSecret), logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
