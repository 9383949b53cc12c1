package service

import (
	"context"

	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/statement"
	"github.com/bank-account-ledger/internal/ledger"
	"github.com/bank-account-ledger/internal/platform/cache"
	"github.com/google/uuid"
)

// Ledger is the transaction engine as seen by the HTTP API
type Ledger interface {
	OpenAccount(ctx context.Context, req ledger.OpenAccountRequest, principalID string) (*account.Account, error)
	Withdraw(ctx context.Context, req ledger.WithdrawRequest, principalID string) (*history.History, error)
	Deposit(ctx context.Context, req ledger.DepositRequest, principalID string) (*history.History, error)
	Transfer(ctx context.Context, req ledger.TransferRequest, principalID string) (*history.History, error)
	ReadAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
	ReadAccountsByOwner(ctx context.Context, principalID string) ([]*account.Account, error)
	ReadHistory(ctx context.Context, direction history.Direction, accountID uuid.UUID) ([]*history.View, error)
}

// AccountCache holds account snapshots; Get returns nil, nil on a miss
type AccountCache interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	Set(ctx context.Context, acc *account.Account) error
	Evict(ctx context.Context, ids ...uuid.UUID) error
}

// AccountService serves account reads for the acting principal
type AccountService interface {
	OpenAccount(ctx context.Context, req ledger.OpenAccountRequest, principalID string) (*account.Account, error)

	// GetAccount returns an AuthorizationError when principalID does not own the account
	GetAccount(ctx context.Context, id uuid.UUID, principalID string) (*account.Account, error)
	ListAccounts(ctx context.Context, principalID string) ([]*account.Account, error)
	GetHistory(ctx context.Context, id uuid.UUID, direction history.Direction, principalID string) ([]*history.View, error)

	// GetStatement returns one page of projected entries and the total entry count
	GetStatement(ctx context.Context, id uuid.UUID, principalID string, page, perPage int) ([]*statement.Entry, int64, error)
}

// MovementService runs money movements and keeps the account cache coherent
type MovementService interface {
	Withdraw(ctx context.Context, req ledger.WithdrawRequest, principalID string) (*history.History, error)
	Deposit(ctx context.Context, req ledger.DepositRequest, principalID string) (*history.History, error)
	Transfer(ctx context.Context, req ledger.TransferRequest, principalID string) (*history.History, error)
}

var (
	_ Ledger       = (*ledger.Service)(nil)
	_ AccountCache = (*cache.AccountCache)(nil)
)
