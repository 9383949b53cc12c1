package history

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Store manages history persistence. Rows are append-only.
type Store interface {
	Insert(ctx context.Context, history *History) (int64, error)

	// FindByAccountAndDirection returns rows referencing accountID, newest first
	FindByAccountAndDirection(ctx context.Context, direction Direction, accountID uuid.UUID) ([]*View, error)
	WithTx(tx pgx.Tx) Store
}
