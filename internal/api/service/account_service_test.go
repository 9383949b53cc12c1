package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/bank-account-ledger/internal/domain/statement"
	"github.com/bank-account-ledger/internal/ledger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ownedAccount(owner string) *account.Account {
	return &account.Account{ID: uuid.New(), Number: "110-1", UserID: owner, Balance: 900, CreatedAt: time.Now()}
}

type accountFixture struct {
	ledger     *MockLedger
	cache      *MockAccountCache
	statements *MockStatementRepo
	svc        AccountService
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{ledger: new(MockLedger), cache: new(MockAccountCache), statements: new(MockStatementRepo)}
	f.svc = NewAccountService(f.ledger, f.cache, f.statements, discardLogger())
	return f
}

func TestAccountService_OpenAccount(t *testing.T) {
	ctx := context.Background()
	req := ledger.OpenAccountRequest{Number: "110-1", Password: "pw", Balance: 100}

	t.Run("caches the new account", func(t *testing.T) {
		f := newAccountFixture()
		acc := ownedAccount("user-1")
		f.ledger.On("OpenAccount", ctx, req, "user-1").Return(acc, nil).Once()
		f.cache.On("Set", ctx, acc).Return(nil).Once()

		got, err := f.svc.OpenAccount(ctx, req, "user-1")
		require.NoError(t, err)
		assert.Equal(t, acc, got)
		f.cache.AssertExpectations(t)
	})

	t.Run("cache failure does not fail the open", func(t *testing.T) {
		f := newAccountFixture()
		acc := ownedAccount("user-1")
		f.ledger.On("OpenAccount", ctx, req, "user-1").Return(acc, nil).Once()
		f.cache.On("Set", ctx, acc).Return(errors.New("redis down")).Once()

		_, err := f.svc.OpenAccount(ctx, req, "user-1")
		assert.NoError(t, err)
	})

	t.Run("ledger error passes through", func(t *testing.T) {
		f := newAccountFixture()
		f.ledger.On("OpenAccount", ctx, req, "user-1").Return(nil, shared.Invalid("bad")).Once()

		_, err := f.svc.OpenAccount(ctx, req, "user-1")
		assert.ErrorIs(t, err, shared.ErrValidation)
		f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
	})
}

func TestAccountService_GetAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the ledger", func(t *testing.T) {
		f := newAccountFixture()
		acc := ownedAccount("user-1")
		f.cache.On("Get", ctx, acc.ID).Return(acc, nil).Once()

		got, err := f.svc.GetAccount(ctx, acc.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, acc, got)
		f.ledger.AssertNotCalled(t, "ReadAccountByID", mock.Anything, mock.Anything)
	})

	t.Run("miss reads the ledger and fills the cache", func(t *testing.T) {
		f := newAccountFixture()
		acc := ownedAccount("user-1")
		f.cache.On("Get", ctx, acc.ID).Return(nil, nil).Once()
		f.ledger.On("ReadAccountByID", ctx, acc.ID).Return(acc, nil).Once()
		f.cache.On("Set", ctx, acc).Return(nil).Once()

		got, err := f.svc.GetAccount(ctx, acc.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, acc, got)
		f.cache.AssertExpectations(t)
	})

	t.Run("cache error falls back to the ledger", func(t *testing.T) {
		f := newAccountFixture()
		acc := ownedAccount("user-1")
		f.cache.On("Get", ctx, acc.ID).Return(nil, errors.New("timeout")).Once()
		f.ledger.On("ReadAccountByID", ctx, acc.ID).Return(acc, nil).Once()
		f.cache.On("Set", ctx, acc).Return(nil).Once()

		_, err := f.svc.GetAccount(ctx, acc.ID, "user-1")
		assert.NoError(t, err)
	})

	t.Run("other principal is refused", func(t *testing.T) {
		f := newAccountFixture()
		acc := ownedAccount("user-1")
		f.cache.On("Get", ctx, acc.ID).Return(acc, nil).Once()

		_, err := f.svc.GetAccount(ctx, acc.ID, "intruder")
		assert.ErrorIs(t, err, shared.ErrAuthorization)
	})

	t.Run("not found", func(t *testing.T) {
		f := newAccountFixture()
		id := uuid.New()
		f.cache.On("Get", ctx, id).Return(nil, nil).Once()
		f.ledger.On("ReadAccountByID", ctx, id).Return(nil, shared.NotFound("missing")).Once()

		_, err := f.svc.GetAccount(ctx, id, "user-1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
	})

	t.Run("works without a cache", func(t *testing.T) {
		l := new(MockLedger)
		svc := NewAccountService(l, nil, new(MockStatementRepo), discardLogger())
		acc := ownedAccount("user-1")
		l.On("ReadAccountByID", ctx, acc.ID).Return(acc, nil).Once()

		got, err := svc.GetAccount(ctx, acc.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)
	})
}

func TestAccountService_GetHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("owner reads history", func(t *testing.T) {
		f := newAccountFixture()
		acc := ownedAccount("user-1")
		views := []*history.View{{ID: uuid.New(), Amount: 10, Balance: 90}}
		f.cache.On("Get", ctx, acc.ID).Return(acc, nil).Once()
		f.ledger.On("ReadHistory", ctx, history.DirectionDeposit, acc.ID).Return(views, nil).Once()

		got, err := f.svc.GetHistory(ctx, acc.ID, history.DirectionDeposit, "user-1")
		require.NoError(t, err)
		assert.Equal(t, views, got)
	})

	t.Run("non owner never reaches the history store", func(t *testing.T) {
		f := newAccountFixture()
		acc := ownedAccount("user-1")
		f.cache.On("Get", ctx, acc.ID).Return(acc, nil).Once()

		_, err := f.svc.GetHistory(ctx, acc.ID, history.DirectionAll, "user-2")
		assert.ErrorIs(t, err, shared.ErrAuthorization)
		f.ledger.AssertNotCalled(t, "ReadHistory", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAccountService_GetStatement(t *testing.T) {
	ctx := context.Background()

	t.Run("pages through entries", func(t *testing.T) {
		f := newAccountFixture()
		acc := ownedAccount("user-1")
		entries := []*statement.Entry{{HistoryID: uuid.New(), AccountID: acc.ID}}
		f.cache.On("Get", ctx, acc.ID).Return(acc, nil).Once()
		f.statements.On("GetByAccountID", ctx, acc.ID, 20, 40).Return(entries, nil).Once()
		f.statements.On("CountByAccountID", ctx, acc.ID).Return(int64(41), nil).Once()

		got, total, err := f.svc.GetStatement(ctx, acc.ID, "user-1", 3, 20)
		require.NoError(t, err)
		assert.Equal(t, entries, got)
		assert.Equal(t, int64(41), total)
	})

	t.Run("invalid paging", func(t *testing.T) {
		f := newAccountFixture()
		_, _, err := f.svc.GetStatement(ctx, uuid.New(), "user-1", 0, 10)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("store failure is a persistence error", func(t *testing.T) {
		f := newAccountFixture()
		acc := ownedAccount("user-1")
		f.cache.On("Get", ctx, acc.ID).Return(acc, nil).Once()
		f.statements.On("GetByAccountID", ctx, acc.ID, 10, 0).Return(nil, errors.New("mongo down")).Once()

		_, _, err := f.svc.GetStatement(ctx, acc.ID, "user-1", 1, 10)
		assert.ErrorIs(t, err, shared.ErrPersistence)
	})
}
