package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/statement"
)

// StatementProjectionService writes one statement entry per account side of an event
type StatementProjectionService struct {
	statements statement.Repository
	logger     *slog.Logger
}

func NewStatementProjectionService(statements statement.Repository, logger *slog.Logger) *StatementProjectionService {
	return &StatementProjectionService{
		statements: statements,
		logger:     logger,
	}
}

// Project stores the event's entries. Entries already present are skipped, so
// a redelivered event completes whatever a previous attempt left undone.
func (s *StatementProjectionService) Project(ctx context.Context, event *history.Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid history event: %w", err)
	}

	logger := s.logger.With("history_id", event.HistoryID.String())
	if event.CorrelationID != "" {
		logger = logger.With("correlation_id", event.CorrelationID)
	}

	for _, entry := range statement.EntriesFromEvent(event) {
		err := s.statements.Create(ctx, entry)
		if errors.Is(err, statement.ErrDuplicateEntry{}) {
			logger.Info("Statement entry already projected", "account_id", entry.AccountID.String(), "side", entry.Side)
			continue
		}
		if err != nil {
			logger.Error("Failed to project statement entry", "account_id", entry.AccountID.String(), "side", entry.Side, "error", err)
			return fmt.Errorf("failed to project entry for account %s: %w", entry.AccountID, err)
		}
		logger.Debug("Projected statement entry", "account_id", entry.AccountID.String(), "side", entry.Side, "balance", entry.Balance)
	}

	logger.Info("History event projected", "kind", event.Kind, "amount", event.Amount)
	return nil
}
