package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Store defines account persistence operations. Write methods report the number
// of rows they affected so callers can detect silent no-ops.
type Store interface {
	Insert(ctx context.Context, account *Account) (int64, error)

	// FindByNumber returns nil, nil when no account has the given number.
	// Inside a transaction the row stays locked until commit or rollback.
	FindByNumber(ctx context.Context, number string) (*Account, error)

	// FindByID returns nil, nil when the account does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByUserID(ctx context.Context, userID string) ([]*Account, error)
	UpdateByID(ctx context.Context, account *Account) (int64, error)
	WithTx(tx pgx.Tx) Store
}
