package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolProjectionService bounds the number of projections running at
// once across all consumers sharing it.
type WorkerPoolProjectionService struct {
	baseService ProjectionService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProjectionService(baseService ProjectionService, config WorkerPoolConfig, logger *slog.Logger) (*WorkerPoolProjectionService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to create projection worker pool: %w", err)
	}

	return &WorkerPoolProjectionService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// Project runs the base projection on a pooled worker and waits for its result
func (s *WorkerPoolProjectionService) Project(ctx context.Context, event *history.Event) error {
	result := make(chan error, 1)
	eventCopy := *event

	err := s.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("projection panicked: %v", r)
			}
		}()
		result <- s.baseService.Project(ctx, &eventCopy)
	})
	if err != nil {
		s.logger.Error("Failed to submit projection to worker pool",
			"history_id", event.HistoryID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to submit projection: %w", err)
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown releases the pool; queued projections are abandoned
func (s *WorkerPoolProjectionService) Shutdown() {
	s.logger.Info("Shutting down projection worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

func (s *WorkerPoolProjectionService) Running() int {
	return s.pool.Running()
}

func (s *WorkerPoolProjectionService) Capacity() int {
	return s.pool.Cap()
}
