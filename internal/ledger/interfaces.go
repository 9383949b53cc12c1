package ledger

import (
	"context"

	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/jackc/pgx/v5"
)

// Transactor runs fn inside one database transaction
type Transactor interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// EventRecorder stores a committed-with-the-row notification of a history record
type EventRecorder interface {
	Record(ctx context.Context, h *history.History) error
	WithTx(tx pgx.Tx) EventRecorder
}
