package statement

import (
	"time"

	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Entry is one line of an account statement, projected from a history event.
// A transfer produces two entries, one per account.
type Entry struct {
	HistoryID     uuid.UUID           `json:"history_id" bson:"history_id"`
	AccountID     uuid.UUID           `json:"account_id" bson:"account_id"`
	Side          shared.EntrySide    `json:"side" bson:"side"`
	Kind          shared.MovementKind `json:"kind" bson:"kind"`
	Amount        int64               `json:"amount" bson:"amount"`
	Balance       int64               `json:"balance" bson:"balance"`
	Counterparty  *uuid.UUID          `json:"counterparty,omitempty" bson:"counterparty,omitempty"`
	CorrelationID string              `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	ProjectedAt   time.Time           `json:"projected_at" bson:"projected_at"`
}

// EntriesFromEvent splits a history event into per-account entries,
// debit side first.
func EntriesFromEvent(event *history.Event) []*Entry {
	now := time.Now()
	entries := make([]*Entry, 0, 2)

	if event.WithdrawalAccountID != nil && event.WithdrawalBalance != nil {
		entries = append(entries, &Entry{
			HistoryID:     event.HistoryID,
			AccountID:     *event.WithdrawalAccountID,
			Side:          shared.EntrySideDebit,
			Kind:          event.Kind,
			Amount:        event.Amount,
			Balance:       *event.WithdrawalBalance,
			Counterparty:  event.DepositAccountID,
			CorrelationID: event.CorrelationID,
			CreatedAt:     event.CreatedAt,
			ProjectedAt:   now,
		})
	}
	if event.DepositAccountID != nil && event.DepositBalance != nil {
		entries = append(entries, &Entry{
			HistoryID:     event.HistoryID,
			AccountID:     *event.DepositAccountID,
			Side:          shared.EntrySideCredit,
			Kind:          event.Kind,
			Amount:        event.Amount,
			Balance:       *event.DepositBalance,
			Counterparty:  event.WithdrawalAccountID,
			CorrelationID: event.CorrelationID,
			CreatedAt:     event.CreatedAt,
			ProjectedAt:   now,
		})
	}
	return entries
}
