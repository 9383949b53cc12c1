package ledger

import (
	"context"
	"io"
	"log/slog"

	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/outbox"
	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type passthroughTransactor struct {
	calls int
}

func (p *passthroughTransactor) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	p.calls++
	return fn(nil)
}

type mockAccountStore struct {
	mock.Mock
}

func (m *mockAccountStore) Insert(ctx context.Context, acc *account.Account) (int64, error) {
	args := m.Called(ctx, acc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAccountStore) FindByNumber(ctx context.Context, number string) (*account.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *mockAccountStore) FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *mockAccountStore) FindByUserID(ctx context.Context, userID string) ([]*account.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *mockAccountStore) UpdateByID(ctx context.Context, acc *account.Account) (int64, error) {
	args := m.Called(ctx, acc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAccountStore) WithTx(tx pgx.Tx) account.Store { return m }

type mockHistoryStore struct {
	mock.Mock
}

func (m *mockHistoryStore) Insert(ctx context.Context, h *history.History) (int64, error) {
	args := m.Called(ctx, h)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockHistoryStore) FindByAccountAndDirection(ctx context.Context, direction history.Direction, accountID uuid.UUID) ([]*history.View, error) {
	args := m.Called(ctx, direction, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.View), args.Error(1)
}

func (m *mockHistoryStore) WithTx(tx pgx.Tx) history.Store { return m }

type mockOutboxRepository struct {
	mock.Mock
}

func (m *mockOutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *mockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepository) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockOutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOutboxRepository) WithTx(tx pgx.Tx) outbox.Repository { return m }
