package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bank-account-ledger/internal/data/mongo"
	"github.com/bank-account-ledger/internal/data/postgres"
	"github.com/bank-account-ledger/internal/platform/messaging/consumers"
	"github.com/bank-account-ledger/internal/platform/messaging/producers"
	"github.com/bank-account-ledger/internal/platform/persistence"
	"github.com/bank-account-ledger/internal/projector/consumer"
	"github.com/bank-account-ledger/internal/projector/outbox_poller"
	"github.com/bank-account-ledger/internal/projector/service"
	"github.com/spf13/cobra"
)

const workerShutdownTimeout = 30 * time.Second

func workerCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Relay the history outbox to Kafka and project statements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.work()
		},
	}
}

func (a *app) work() error {
	cfg, log := a.cfg, a.log

	appCtx, stop := signalContext()
	defer stop()

	log.Info("Starting ledger worker", "app_name", cfg.Application.Name, "env", cfg.Application.Env)

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
		closeCtx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		defer cancel()
		if err := mongoDB.Close(closeCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}()

	if err := mongoDB.EnsureIndexes(appCtx, mongo.StatementCollectionName, mongo.StatementIndexes()...); err != nil {
		return fmt.Errorf("failed to ensure statement indexes: %w", err)
	}

	historyProducer, err := producers.NewHistoryEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		return fmt.Errorf("failed to initialize history event producer: %w", err)
	}
	defer historyProducer.Close()

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		return fmt.Errorf("failed to initialize DLQ producer: %w", err)
	}
	defer dlqProducer.Close()

	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	statementRepo := mongo.NewStatementRepository(log, mongoDB.Database())

	projection, err := service.NewWorkerPoolProjectionService(
		service.NewStatementProjectionService(statementRepo, log),
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		log,
	)
	if err != nil {
		return err
	}

	handler := consumer.NewHistoryEventHandler(log, projection, dlqProducer)
	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka)
	poller := outbox_poller.NewPoller(&cfg.Outbox, postgresDB, outboxRepo, historyProducer, log)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	if err := kafkaConsumer.Subscribe(appCtx, handler.HandleMessage); err != nil {
		stop()
		wg.Wait()
		return fmt.Errorf("kafka consumer error: %w", err)
	}

	<-appCtx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown sequence
	waitCtx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		<-kafkaConsumer.Done()
		close(stopped)
	}()

	select {
	case <-stopped:
		log.Info("All workers stopped")
	case <-waitCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	log.Info("Shutting down projection pool", "running_workers", projection.Running())
	projection.Shutdown()

	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	log.Info("Ledger worker shutdown completed")
	return nil
}
