package service

import (
	"context"
	"log/slog"

	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/ledger"
	"github.com/bank-account-ledger/internal/logger"
)

// MovementServiceImpl forwards movements to the ledger and evicts the cached
// snapshots of every account a committed movement touched.
type MovementServiceImpl struct {
	ledger Ledger
	cache  AccountCache // optional
	logger *slog.Logger
}

func NewMovementService(l Ledger, cache AccountCache, logger *slog.Logger) MovementService {
	return &MovementServiceImpl{
		ledger: l,
		cache:  cache,
		logger: logger,
	}
}

func (s *MovementServiceImpl) Withdraw(ctx context.Context, req ledger.WithdrawRequest, principalID string) (*history.History, error) {
	return s.committed(ctx)(s.ledger.Withdraw(ctx, req, principalID))
}

func (s *MovementServiceImpl) Deposit(ctx context.Context, req ledger.DepositRequest, principalID string) (*history.History, error) {
	return s.committed(ctx)(s.ledger.Deposit(ctx, req, principalID))
}

func (s *MovementServiceImpl) Transfer(ctx context.Context, req ledger.TransferRequest, principalID string) (*history.History, error) {
	return s.committed(ctx)(s.ledger.Transfer(ctx, req, principalID))
}

func (s *MovementServiceImpl) committed(ctx context.Context) func(*history.History, error) (*history.History, error) {
	return func(h *history.History, err error) (*history.History, error) {
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Evict(ctx, h.AccountIDs()...); err != nil {
				// A stale snapshot lives at most one cache TTL
				logger.FromContext(ctx, s.logger).Warn("Failed to evict cached accounts", "history_id", h.ID.String(), "error", err)
			}
		}
		return h, nil
	}
}
