package service

import (
	"context"
	"log/slog"

	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/bank-account-ledger/internal/domain/statement"
	"github.com/bank-account-ledger/internal/ledger"
	"github.com/bank-account-ledger/internal/logger"
	"github.com/google/uuid"
)

// AccountServiceImpl implements AccountService. Account lookups are
// cache-aside; cache failures degrade to a ledger read.
type AccountServiceImpl struct {
	ledger     Ledger
	cache      AccountCache // optional
	statements statement.Repository
	logger     *slog.Logger
}

func NewAccountService(l Ledger, cache AccountCache, statements statement.Repository, logger *slog.Logger) AccountService {
	return &AccountServiceImpl{
		ledger:     l,
		cache:      cache,
		statements: statements,
		logger:     logger,
	}
}

func (s *AccountServiceImpl) OpenAccount(ctx context.Context, req ledger.OpenAccountRequest, principalID string) (*account.Account, error) {
	acc, err := s.ledger.OpenAccount(ctx, req, principalID)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, acc)
	return acc, nil
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, id uuid.UUID, principalID string) (*account.Account, error) {
	acc, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := acc.CheckOwner(principalID); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *AccountServiceImpl) ListAccounts(ctx context.Context, principalID string) ([]*account.Account, error) {
	return s.ledger.ReadAccountsByOwner(ctx, principalID)
}

func (s *AccountServiceImpl) GetHistory(ctx context.Context, id uuid.UUID, direction history.Direction, principalID string) ([]*history.View, error) {
	if _, err := s.GetAccount(ctx, id, principalID); err != nil {
		return nil, err
	}
	return s.ledger.ReadHistory(ctx, direction, id)
}

// GetStatement reads the projection, which trails the ledger by the relay delay
func (s *AccountServiceImpl) GetStatement(ctx context.Context, id uuid.UUID, principalID string, page, perPage int) ([]*statement.Entry, int64, error) {
	if page < 1 || perPage < 1 {
		return nil, 0, shared.Invalid("page and per_page must be positive")
	}
	if _, err := s.GetAccount(ctx, id, principalID); err != nil {
		return nil, 0, err
	}

	entries, err := s.statements.GetByAccountID(ctx, id, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, shared.WrapError(shared.KindPersistence, "statement store rejected the query", err)
	}
	total, err := s.statements.CountByAccountID(ctx, id)
	if err != nil {
		return nil, 0, shared.WrapError(shared.KindPersistence, "statement store rejected the query", err)
	}
	return entries, total, nil
}

func (s *AccountServiceImpl) lookup(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	log := logger.FromContext(ctx, s.logger)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			log.Warn("Account cache read failed, falling back to ledger", "account_id", id.String(), "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	acc, err := s.ledger.ReadAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, acc)
	return acc, nil
}

func (s *AccountServiceImpl) remember(ctx context.Context, acc *account.Account) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, acc); err != nil {
		logger.FromContext(ctx, s.logger).Warn("Failed to cache account", "account_id", acc.ID.String(), "error", err)
	}
}
