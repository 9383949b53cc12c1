package history

import (
	"errors"
	"time"

	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Event is the published form of a committed history row
type Event struct {
	HistoryID           uuid.UUID           `json:"history_id"`
	Kind                shared.MovementKind `json:"kind"`
	Amount              int64               `json:"amount"`
	WithdrawalAccountID *uuid.UUID          `json:"withdrawal_account_id,omitempty"`
	WithdrawalBalance   *int64              `json:"withdrawal_balance,omitempty"`
	DepositAccountID    *uuid.UUID          `json:"deposit_account_id,omitempty"`
	DepositBalance      *int64              `json:"deposit_balance,omitempty"`
	CorrelationID       string              `json:"correlation_id,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
}

// NewEvent describes h for downstream consumers
func NewEvent(h *History, correlationID string) *Event {
	return &Event{
		HistoryID:           h.ID,
		Kind:                h.Kind(),
		Amount:              h.Amount,
		WithdrawalAccountID: h.WAccountID,
		WithdrawalBalance:   h.WBalance,
		DepositAccountID:    h.DAccountID,
		DepositBalance:      h.DBalance,
		CorrelationID:       correlationID,
		CreatedAt:           h.CreatedAt,
	}
}

// Validate rejects events that cannot be projected
func (e *Event) Validate() error {
	switch {
	case e.HistoryID == uuid.Nil:
		return errors.New("history event has no history id")
	case e.Amount <= 0:
		return errors.New("history event amount must be positive")
	case e.WithdrawalAccountID == nil && e.DepositAccountID == nil:
		return errors.New("history event names no account")
	case (e.WithdrawalAccountID == nil) != (e.WithdrawalBalance == nil):
		return errors.New("history event withdrawal side is incomplete")
	case (e.DepositAccountID == nil) != (e.DepositBalance == nil):
		return errors.New("history event deposit side is incomplete")
	}
	return nil
}
