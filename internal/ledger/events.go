package ledger

import (
	"context"
	"fmt"

	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/outbox"
	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/jackc/pgx/v5"
)

// OutboxRecorder writes history events to the transactional outbox
type OutboxRecorder struct {
	repo outbox.Repository
}

func NewOutboxRecorder(repo outbox.Repository) *OutboxRecorder {
	return &OutboxRecorder{repo: repo}
}

func (r *OutboxRecorder) WithTx(tx pgx.Tx) EventRecorder {
	return &OutboxRecorder{repo: r.repo.WithTx(tx)}
}

func (r *OutboxRecorder) Record(ctx context.Context, h *history.History) error {
	msg, err := outbox.NewMessage(history.NewEvent(h, shared.CorrelationIDFromContext(ctx)))
	if err != nil {
		return fmt.Errorf("failed to encode history event: %w", err)
	}
	return r.repo.Create(ctx, msg)
}
