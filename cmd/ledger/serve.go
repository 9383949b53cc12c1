package main

import (
	"context"
	"fmt"

	"github.com/bank-account-ledger/internal/api"
	"github.com/bank-account-ledger/internal/api/service"
	"github.com/bank-account-ledger/internal/data/mongo"
	"github.com/bank-account-ledger/internal/data/postgres"
	"github.com/bank-account-ledger/internal/ledger"
	"github.com/bank-account-ledger/internal/platform/cache"
	"github.com/bank-account-ledger/internal/platform/persistence"
	"github.com/spf13/cobra"
)

func serveCommand(a *app) *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
	return cmd
}

func (a *app) serve(skipMigrations bool) error {
	cfg, log := a.cfg, a.log

	appCtx, stop := signalContext()
	defer stop()

	log.Info("Starting ledger API", "app_name", cfg.Application.Name, "env", cfg.Application.Env)

	if !skipMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.URL, cfg.Postgres.MigrationsPath); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer postgresDB.Close()

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("failed to initialize MongoDB: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := mongoDB.Close(closeCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}()

	redisClient, err := cache.NewRedisClient(appCtx, &cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	historyRepo := postgres.NewHistoryRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	statementRepo := mongo.NewStatementRepository(log, mongoDB.Database())

	engine := ledger.NewService(postgresDB, accountRepo, historyRepo, ledger.NewOutboxRecorder(outboxRepo), log)
	accountCache := cache.NewAccountCache(redisClient, cfg.Redis.TTL, log)

	server := api.NewServer(log,
		cfg,
		service.NewAccountService(engine, accountCache, statementRepo, log),
		service.NewMovementService(engine, accountCache, log),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	var serveErr error
	select {
	case <-appCtx.Done():
		log.Info("Shutdown signal received")
	case serveErr = <-errChan:
		log.Error("HTTP server stopped unexpectedly", "error", serveErr)
	}

	if err := server.Stop(context.Background()); err != nil {
		log.Error("Error stopping HTTP server", "error", err)
	}

	log.Info("Ledger API shutdown completed")
	return serveErr
}
