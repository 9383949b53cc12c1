package history

import (
	"errors"
	"time"

	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrMalformedHistory is a programming error: a record was built with a shape
// that does not describe any money movement.
var ErrMalformedHistory = errors.New("malformed history record")

// History is one immutable record of a completed withdrawal, deposit or transfer
type History struct {
	ID         uuid.UUID  `json:"id"`
	Amount     int64      `json:"amount"`
	WBalance   *int64     `json:"w_balance,omitempty"`    // withdrawal-side balance after the movement
	DBalance   *int64     `json:"d_balance,omitempty"`    // deposit-side balance after the movement
	WAccountID *uuid.UUID `json:"w_account_id,omitempty"` // account that lost funds
	DAccountID *uuid.UUID `json:"d_account_id,omitempty"` // account that gained funds
	CreatedAt  time.Time  `json:"created_at"`
}

// Side is one account's participation in a movement
type Side struct {
	AccountID uuid.UUID
	Balance   int64
}

// New builds a record from the sides that took part. At least one side must be
// present and amount must be positive.
func New(amount int64, withdrawal, deposit *Side) (*History, error) {
	if amount <= 0 || (withdrawal == nil && deposit == nil) {
		return nil, ErrMalformedHistory
	}

	h := &History{
		ID:        uuid.New(),
		Amount:    amount,
		CreatedAt: time.Now(),
	}
	if withdrawal != nil {
		balance, id := withdrawal.Balance, withdrawal.AccountID
		h.WBalance, h.WAccountID = &balance, &id
	}
	if deposit != nil {
		balance, id := deposit.Balance, deposit.AccountID
		h.DBalance, h.DAccountID = &balance, &id
	}
	return h, nil
}

func NewWithdrawal(amount int64, accountID uuid.UUID, balance int64) (*History, error) {
	return New(amount, &Side{AccountID: accountID, Balance: balance}, nil)
}

func NewDeposit(amount int64, accountID uuid.UUID, balance int64) (*History, error) {
	return New(amount, nil, &Side{AccountID: accountID, Balance: balance})
}

func NewTransfer(amount int64, from Side, to Side) (*History, error) {
	return New(amount, &from, &to)
}

// Validate reports ErrMalformedHistory unless the record has exactly one of the
// withdrawal-only, deposit-only or transfer shapes.
func (h *History) Validate() error {
	if h.Amount <= 0 {
		return ErrMalformedHistory
	}
	withdrawal := h.WAccountID != nil && h.WBalance != nil
	deposit := h.DAccountID != nil && h.DBalance != nil
	if (h.WAccountID != nil) != (h.WBalance != nil) || (h.DAccountID != nil) != (h.DBalance != nil) {
		return ErrMalformedHistory
	}
	if !withdrawal && !deposit {
		return ErrMalformedHistory
	}
	return nil
}

// Kind reports which movement the record describes
func (h *History) Kind() shared.MovementKind {
	switch {
	case h.WAccountID != nil && h.DAccountID != nil:
		return shared.MovementTransfer
	case h.WAccountID != nil:
		return shared.MovementWithdrawal
	default:
		return shared.MovementDeposit
	}
}

// AccountIDs lists the accounts touched by the movement, withdrawal side first
func (h *History) AccountIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, 2)
	if h.WAccountID != nil {
		ids = append(ids, *h.WAccountID)
	}
	if h.DAccountID != nil {
		ids = append(ids, *h.DAccountID)
	}
	return ids
}
