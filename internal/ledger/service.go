// Package ledger is the account ledger transaction engine. Every mutating
// operation validates ownership, credentials and balances, applies the change
// and appends one history record inside a single transaction.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/bank-account-ledger/internal/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	msgStoreFailure = "ledger store rejected the operation"
	msgUnexpected   = "unexpected ledger failure"
)

// Service holds only collaborator references; it keeps no state between calls
type Service struct {
	transactor Transactor
	accounts   account.Store
	histories  history.Store
	events     EventRecorder // optional
	logger     *slog.Logger
}

func NewService(transactor Transactor, accounts account.Store, histories history.Store, events EventRecorder, logger *slog.Logger) *Service {
	return &Service{
		transactor: transactor,
		accounts:   accounts,
		histories:  histories,
		events:     events,
		logger:     logger.With("component", "ledger"),
	}
}

// OpenAccount creates an account owned by principalID
func (s *Service) OpenAccount(ctx context.Context, req OpenAccountRequest, principalID string) (*account.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var opened *account.Account
	err := s.inTx(ctx, "open_account", func(tx pgx.Tx) error {
		acc, err := account.NewAccount(req.Number, req.Password, req.Balance, principalID)
		if err != nil {
			return err
		}
		rows, err := s.accounts.WithTx(tx).Insert(ctx, acc)
		if err != nil {
			return err
		}
		if rows == 0 {
			return shared.Integrity("account insert affected no rows")
		}
		opened = acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info("Account opened", "account_id", opened.ID, "user_id", principalID)
	return opened, nil
}

// Withdraw checks existence, ownership, credential and funds, in that order,
// before any write.
func (s *Service) Withdraw(ctx context.Context, req WithdrawRequest, principalID string) (*history.History, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var record *history.History
	err := s.inTx(ctx, "withdraw", func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)

		acc, err := s.loadByNumber(ctx, accounts, req.WAccountNumber)
		if err != nil {
			return err
		}
		if err := acc.CheckOwner(principalID); err != nil {
			return err
		}
		if err := acc.CheckPassword(req.WAccountPassword); err != nil {
			return err
		}
		if err := acc.CheckBalance(req.Amount); err != nil {
			return err
		}
		if err := acc.Withdraw(req.Amount); err != nil {
			return err
		}
		if err := s.persist(ctx, accounts, acc); err != nil {
			return err
		}

		h, err := history.NewWithdrawal(req.Amount, acc.ID, acc.Balance)
		if err != nil {
			return err
		}
		record = h
		return s.record(ctx, tx, h)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info("Withdrawal committed",
		"history_id", record.ID, "account_id", *record.WAccountID, "amount", record.Amount)
	return record, nil
}

// Deposit is restricted to the account's own owner
func (s *Service) Deposit(ctx context.Context, req DepositRequest, principalID string) (*history.History, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var record *history.History
	err := s.inTx(ctx, "deposit", func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)

		acc, err := s.loadByNumber(ctx, accounts, req.DAccountNumber)
		if err != nil {
			return err
		}
		if err := acc.CheckOwner(principalID); err != nil {
			return err
		}
		if err := acc.Deposit(req.Amount); err != nil {
			return err
		}
		if err := s.persist(ctx, accounts, acc); err != nil {
			return err
		}

		h, err := history.NewDeposit(req.Amount, acc.ID, acc.Balance)
		if err != nil {
			return err
		}
		record = h
		return s.record(ctx, tx, h)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info("Deposit committed",
		"history_id", record.ID, "account_id", *record.DAccountID, "amount", record.Amount)
	return record, nil
}

// Transfer moves funds between two accounts. Only the withdrawal side must be
// owned by principalID; both sides must exist.
func (s *Service) Transfer(ctx context.Context, req TransferRequest, principalID string) (*history.History, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var record *history.History
	err := s.inTx(ctx, "transfer", func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)

		from, to, err := s.loadPair(ctx, accounts, req.WAccountNumber, req.DAccountNumber)
		if err != nil {
			return err
		}
		if err := from.CheckOwner(principalID); err != nil {
			return err
		}
		if err := from.CheckPassword(req.Password); err != nil {
			return err
		}
		if err := from.CheckBalance(req.Amount); err != nil {
			return err
		}
		if err := from.Withdraw(req.Amount); err != nil {
			return err
		}
		if err := to.Deposit(req.Amount); err != nil {
			return err
		}
		if err := s.persist(ctx, accounts, to); err != nil {
			return err
		}
		if err := s.persist(ctx, accounts, from); err != nil {
			return err
		}

		h, err := history.NewTransfer(req.Amount,
			history.Side{AccountID: from.ID, Balance: from.Balance},
			history.Side{AccountID: to.ID, Balance: to.Balance},
		)
		if err != nil {
			return err
		}
		record = h
		return s.record(ctx, tx, h)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info("Transfer committed",
		"history_id", record.ID,
		"from_account_id", *record.WAccountID,
		"to_account_id", *record.DAccountID,
		"amount", record.Amount,
	)
	return record, nil
}

// ReadAccountByID returns an account snapshot without ownership checks
func (s *Service) ReadAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var acc *account.Account
	err := s.guard(ctx, "read_account", func() error {
		found, err := s.accounts.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return shared.NotFound(fmt.Sprintf("account %s does not exist", id))
		}
		acc = found
		return nil
	})
	return acc, err
}

// ReadAccountsByOwner returns an empty slice when the principal owns nothing
func (s *Service) ReadAccountsByOwner(ctx context.Context, principalID string) ([]*account.Account, error) {
	accounts := []*account.Account{}
	err := s.guard(ctx, "read_accounts", func() error {
		found, err := s.accounts.FindByUserID(ctx, principalID)
		if err != nil {
			return err
		}
		if found != nil {
			accounts = found
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// ReadHistory re-queries on every call; rows come newest first
func (s *Service) ReadHistory(ctx context.Context, direction history.Direction, accountID uuid.UUID) ([]*history.View, error) {
	switch direction {
	case history.DirectionAll, history.DirectionWithdrawal, history.DirectionDeposit:
	default:
		return nil, shared.Invalid(fmt.Sprintf("unknown history direction %q", direction))
	}

	views := []*history.View{}
	err := s.guard(ctx, "read_history", func() error {
		found, err := s.histories.FindByAccountAndDirection(ctx, direction, accountID)
		if err != nil {
			return err
		}
		if found != nil {
			views = found
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *Service) loadByNumber(ctx context.Context, accounts account.Store, number string) (*account.Account, error) {
	acc, err := accounts.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, shared.NotFound(fmt.Sprintf("account %s does not exist", number))
	}
	return acc, nil
}

// loadPair locks both transfer sides in account number order so that opposing
// transfers cannot deadlock. A missing withdrawal side is reported first.
func (s *Service) loadPair(ctx context.Context, accounts account.Store, wNumber, dNumber string) (*account.Account, *account.Account, error) {
	order := []string{wNumber, dNumber}
	if dNumber < wNumber {
		order[0], order[1] = dNumber, wNumber
	}

	found := make(map[string]*account.Account, 2)
	for _, number := range order {
		acc, err := accounts.FindByNumber(ctx, number)
		if err != nil {
			return nil, nil, err
		}
		found[number] = acc
	}

	for _, number := range []string{wNumber, dNumber} {
		if found[number] == nil {
			return nil, nil, shared.NotFound(fmt.Sprintf("account %s does not exist", number))
		}
	}
	return found[wNumber], found[dNumber], nil
}

func (s *Service) persist(ctx context.Context, accounts account.Store, acc *account.Account) error {
	rows, err := accounts.UpdateByID(ctx, acc)
	if err != nil {
		return err
	}
	if rows == 0 {
		return shared.Integrity(fmt.Sprintf("update of account %s affected no rows", acc.ID))
	}
	return nil
}

func (s *Service) record(ctx context.Context, tx pgx.Tx, h *history.History) error {
	if err := h.Validate(); err != nil {
		return err
	}
	rows, err := s.histories.WithTx(tx).Insert(ctx, h)
	if err != nil {
		return err
	}
	if rows != 1 {
		return shared.Integrity(fmt.Sprintf("history insert affected %d rows", rows))
	}
	if s.events == nil {
		return nil
	}
	return s.events.WithTx(tx).Record(ctx, h)
}

// inTx runs fn in one transaction and translates whatever aborted it
func (s *Service) inTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	return s.guard(ctx, op, func() error {
		return s.transactor.ExecuteTx(ctx, fn)
	})
}

// guard converts panics and store faults into ledger errors. Errors already
// classified by the domain pass through unchanged.
func (s *Service) guard(ctx context.Context, op string, fn func() error) (err error) {
	log := logger.FromContext(ctx, s.logger).With("operation", op)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Ledger operation panicked", "panic", r)
			err = shared.WrapError(shared.KindSystem, msgUnexpected, fmt.Errorf("panic: %v", r))
		}
	}()

	if err = fn(); err == nil {
		return nil
	}

	var ledgerErr *shared.Error
	switch {
	case errors.As(err, &ledgerErr):
		if ledgerErr.Severity() == shared.SeverityServer {
			log.Error("Ledger operation failed", "kind", ledgerErr.Kind, "error", err)
		} else {
			log.Warn("Ledger operation rejected", "kind", ledgerErr.Kind, "reason", ledgerErr.Message)
		}
		return ledgerErr
	case errors.Is(err, shared.ErrDataAccess):
		log.Error("Ledger store fault", "error", err)
		return shared.WrapError(shared.KindPersistence, msgStoreFailure, err)
	default:
		log.Error("Unexpected ledger failure", "error", err)
		return shared.WrapError(shared.KindSystem, msgUnexpected, err)
	}
}
