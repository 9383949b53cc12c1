package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/statement"
	"github.com/bank-account-ledger/internal/ledger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) OpenAccount(ctx context.Context, req ledger.OpenAccountRequest, principalID string) (*account.Account, error) {
	args := m.Called(ctx, req, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockLedger) Withdraw(ctx context.Context, req ledger.WithdrawRequest, principalID string) (*history.History, error) {
	args := m.Called(ctx, req, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.History), args.Error(1)
}

func (m *MockLedger) Deposit(ctx context.Context, req ledger.DepositRequest, principalID string) (*history.History, error) {
	args := m.Called(ctx, req, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.History), args.Error(1)
}

func (m *MockLedger) Transfer(ctx context.Context, req ledger.TransferRequest, principalID string) (*history.History, error) {
	args := m.Called(ctx, req, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.History), args.Error(1)
}

func (m *MockLedger) ReadAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockLedger) ReadAccountsByOwner(ctx context.Context, principalID string) ([]*account.Account, error) {
	args := m.Called(ctx, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockLedger) ReadHistory(ctx context.Context, direction history.Direction, accountID uuid.UUID) ([]*history.View, error) {
	args := m.Called(ctx, direction, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.View), args.Error(1)
}

type MockAccountCache struct {
	mock.Mock
}

func (m *MockAccountCache) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountCache) Set(ctx context.Context, acc *account.Account) error {
	return m.Called(ctx, acc).Error(0)
}

func (m *MockAccountCache) Evict(ctx context.Context, ids ...uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

type MockStatementRepo struct {
	mock.Mock
}

func (m *MockStatementRepo) Create(ctx context.Context, entry *statement.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockStatementRepo) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*statement.Entry, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*statement.Entry), args.Error(1)
}

func (m *MockStatementRepo) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}
