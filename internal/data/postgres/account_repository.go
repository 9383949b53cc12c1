// Package postgres provides PostgreSQL implementations of the ledger stores.
// Driver failures are wrapped with shared.ErrDataAccess so the engine can tell
// them apart from business rule violations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/bank-account-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, number, user_id, password, balance, created_at`

// AccountRepository implements account.Store for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	inTx    bool
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Store {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx binds the repository to tx. Lookups by number then take a row lock
// that is held until the transaction ends.
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Store {
	return &AccountRepository{
		querier: tx,
		inTx:    true,
		logger:  r.logger,
	}
}

// Insert stores a new account. A duplicate number violates accounts_number_key.
func (r *AccountRepository) Insert(ctx context.Context, acc *account.Account) (int64, error) {
	query := `
		INSERT INTO accounts (id, number, user_id, password, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	result, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.Number,
		acc.UserID,
		acc.Password,
		acc.Balance,
		acc.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create account", "number", acc.Number, "error", err)
		return 0, fmt.Errorf("failed to create account: %w: %w", shared.ErrDataAccess, err)
	}

	return result.RowsAffected(), nil
}

// FindByNumber returns nil, nil when no account has the number
func (r *AccountRepository) FindByNumber(ctx context.Context, number string) (*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE number = $1
	`
	if r.inTx {
		query += `FOR UPDATE`
	}

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get account by number", "number", number, "error", err)
		return nil, fmt.Errorf("failed to get account by number: %w: %w", shared.ErrDataAccess, err)
	}

	return acc, nil
}

// FindByID returns nil, nil when the account does not exist
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
	`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w: %w", shared.ErrDataAccess, err)
	}

	return acc, nil
}

// FindByUserID lists the accounts owned by userID, oldest first
func (r *AccountRepository) FindByUserID(ctx context.Context, userID string) ([]*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list accounts", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w: %w", shared.ErrDataAccess, err)
	}
	defer rows.Close()

	accounts := []*account.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			r.logger.Error("Failed to scan account", "error", err)
			return nil, fmt.Errorf("failed to scan account: %w: %w", shared.ErrDataAccess, err)
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over accounts", "error", err)
		return nil, fmt.Errorf("error iterating over accounts: %w: %w", shared.ErrDataAccess, err)
	}

	return accounts, nil
}

// UpdateByID writes the balance back. Number and owner are never updated.
func (r *AccountRepository) UpdateByID(ctx context.Context, acc *account.Account) (int64, error) {
	query := `
		UPDATE accounts
		SET balance = $1
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, acc.Balance, acc.ID)
	if err != nil {
		r.logger.Error("Failed to update account", "id", acc.ID.String(), "error", err)
		return 0, fmt.Errorf("failed to update account: %w: %w", shared.ErrDataAccess, err)
	}

	return result.RowsAffected(), nil
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(
		&acc.ID,
		&acc.Number,
		&acc.UserID,
		&acc.Password,
		&acc.Balance,
		&acc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
