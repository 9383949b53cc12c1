package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/bank-account-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HistoryRepository implements history.Store for PostgreSQL. Rows are append-only.
type HistoryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewHistoryRepository(logger *slog.Logger, db *persistence.PostgresDB) history.Store {
	return &HistoryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *HistoryRepository) WithTx(tx pgx.Tx) history.Store {
	return &HistoryRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *HistoryRepository) Insert(ctx context.Context, h *history.History) (int64, error) {
	query := `
		INSERT INTO history (id, amount, w_balance, d_balance, w_account_id, d_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	result, err := r.querier.Exec(ctx, query,
		h.ID,
		h.Amount,
		h.WBalance,
		h.DBalance,
		h.WAccountID,
		h.DAccountID,
		h.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create history", "history_id", h.ID.String(), "error", err)
		return 0, fmt.Errorf("failed to create history: %w: %w", shared.ErrDataAccess, err)
	}

	return result.RowsAffected(), nil
}

// Balance is read from the queried account's side of each row
const (
	historyAllQuery = `
		SELECT h.id, h.amount,
		       CASE WHEN h.w_account_id = $1 THEN h.w_balance ELSE h.d_balance END,
		       COALESCE(wa.number, ''), COALESCE(da.number, ''), h.created_at
		FROM history h
		LEFT JOIN accounts wa ON wa.id = h.w_account_id
		LEFT JOIN accounts da ON da.id = h.d_account_id
		WHERE h.w_account_id = $1 OR h.d_account_id = $1
		ORDER BY h.created_at DESC, h.id DESC
	`
	historyWithdrawalQuery = `
		SELECT h.id, h.amount, h.w_balance,
		       COALESCE(wa.number, ''), COALESCE(da.number, ''), h.created_at
		FROM history h
		LEFT JOIN accounts wa ON wa.id = h.w_account_id
		LEFT JOIN accounts da ON da.id = h.d_account_id
		WHERE h.w_account_id = $1
		ORDER BY h.created_at DESC, h.id DESC
	`
	historyDepositQuery = `
		SELECT h.id, h.amount, h.d_balance,
		       COALESCE(wa.number, ''), COALESCE(da.number, ''), h.created_at
		FROM history h
		LEFT JOIN accounts wa ON wa.id = h.w_account_id
		LEFT JOIN accounts da ON da.id = h.d_account_id
		WHERE h.d_account_id = $1
		ORDER BY h.created_at DESC, h.id DESC
	`
)

// FindByAccountAndDirection returns rows newest first
func (r *HistoryRepository) FindByAccountAndDirection(ctx context.Context, direction history.Direction, accountID uuid.UUID) ([]*history.View, error) {
	var query string
	switch direction {
	case history.DirectionAll:
		query = historyAllQuery
	case history.DirectionWithdrawal:
		query = historyWithdrawalQuery
	case history.DirectionDeposit:
		query = historyDepositQuery
	default:
		return nil, fmt.Errorf("unsupported history direction %q", direction)
	}

	rows, err := r.querier.Query(ctx, query, accountID)
	if err != nil {
		r.logger.Error("Failed to query history", "account_id", accountID.String(), "direction", string(direction), "error", err)
		return nil, fmt.Errorf("failed to query history: %w: %w", shared.ErrDataAccess, err)
	}
	defer rows.Close()

	views := []*history.View{}
	for rows.Next() {
		var v history.View
		if err := rows.Scan(&v.ID, &v.Amount, &v.Balance, &v.Sender, &v.Receiver, &v.CreatedAt); err != nil {
			r.logger.Error("Failed to scan history", "error", err)
			return nil, fmt.Errorf("failed to scan history: %w: %w", shared.ErrDataAccess, err)
		}
		views = append(views, &v)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over history", "error", err)
		return nil, fmt.Errorf("error iterating over history: %w: %w", shared.ErrDataAccess, err)
	}

	return views, nil
}
