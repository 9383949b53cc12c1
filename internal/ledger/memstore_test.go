package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// memLedger is an in-memory ledger store whose transactions restore the
// previous state when fn fails or panics. Transactions are serialized, which
// stands in for row locks.
type memLedger struct {
	txMu      sync.Mutex
	accounts  map[uuid.UUID]account.Account
	histories []history.History
	events    []*history.History
	writes    int
	txCount   int
	lookups   []string

	failHistoryInsert error
	failEventRecord   error
}

func newMemLedger() *memLedger {
	return &memLedger{accounts: map[uuid.UUID]account.Account{}}
}

func (m *memLedger) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	m.txCount++

	accounts := make(map[uuid.UUID]account.Account, len(m.accounts))
	for id, acc := range m.accounts {
		accounts[id] = acc
	}
	histories, events := len(m.histories), len(m.events)
	restore := func() {
		m.accounts = accounts
		m.histories = m.histories[:histories]
		m.events = m.events[:events]
	}

	defer func() {
		if r := recover(); r != nil {
			restore()
			panic(r)
		}
	}()

	if err = fn(nil); err != nil {
		restore()
	}
	return err
}

func (m *memLedger) seed(number, password string, balance int64, owner string) *account.Account {
	acc, err := account.NewAccount(number, password, balance, owner)
	if err != nil {
		panic(err)
	}
	m.accounts[acc.ID] = *acc
	return acc
}

func (m *memLedger) balance(id uuid.UUID) int64 {
	return m.accounts[id].Balance
}

func (m *memLedger) service() *Service {
	return NewService(m, &memAccounts{m}, &memHistories{m}, &memEvents{m}, discardLogger())
}

type memAccounts struct{ m *memLedger }

func (s *memAccounts) Insert(ctx context.Context, acc *account.Account) (int64, error) {
	for _, existing := range s.m.accounts {
		if existing.Number == acc.Number {
			return 0, fmt.Errorf("duplicate account number %s: %w", acc.Number, shared.ErrDataAccess)
		}
	}
	s.m.writes++
	s.m.accounts[acc.ID] = *acc
	return 1, nil
}

func (s *memAccounts) FindByNumber(ctx context.Context, number string) (*account.Account, error) {
	s.m.lookups = append(s.m.lookups, number)
	for _, acc := range s.m.accounts {
		if acc.Number == number {
			found := acc
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memAccounts) FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	acc, ok := s.m.accounts[id]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

func (s *memAccounts) FindByUserID(ctx context.Context, userID string) ([]*account.Account, error) {
	var owned []*account.Account
	for _, acc := range s.m.accounts {
		if acc.UserID == userID {
			found := acc
			owned = append(owned, &found)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].Number < owned[j].Number })
	return owned, nil
}

func (s *memAccounts) UpdateByID(ctx context.Context, acc *account.Account) (int64, error) {
	if _, ok := s.m.accounts[acc.ID]; !ok {
		return 0, nil
	}
	s.m.writes++
	s.m.accounts[acc.ID] = *acc
	return 1, nil
}

func (s *memAccounts) WithTx(tx pgx.Tx) account.Store { return s }

type memHistories struct{ m *memLedger }

func (s *memHistories) Insert(ctx context.Context, h *history.History) (int64, error) {
	if s.m.failHistoryInsert != nil {
		return 0, s.m.failHistoryInsert
	}
	s.m.writes++
	s.m.histories = append(s.m.histories, *h)
	return 1, nil
}

func (s *memHistories) FindByAccountAndDirection(ctx context.Context, direction history.Direction, accountID uuid.UUID) ([]*history.View, error) {
	var views []*history.View
	for i := len(s.m.histories) - 1; i >= 0; i-- {
		h := s.m.histories[i]
		withdrawal := h.WAccountID != nil && *h.WAccountID == accountID
		deposit := h.DAccountID != nil && *h.DAccountID == accountID

		v := &history.View{ID: h.ID, Amount: h.Amount, CreatedAt: h.CreatedAt}
		if h.WAccountID != nil {
			v.Sender = s.m.accounts[*h.WAccountID].Number
		}
		if h.DAccountID != nil {
			v.Receiver = s.m.accounts[*h.DAccountID].Number
		}

		switch {
		case withdrawal && direction != history.DirectionDeposit:
			v.Balance = *h.WBalance
		case deposit && direction != history.DirectionWithdrawal:
			v.Balance = *h.DBalance
		default:
			continue
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *memHistories) WithTx(tx pgx.Tx) history.Store { return s }

type memEvents struct{ m *memLedger }

func (s *memEvents) Record(ctx context.Context, h *history.History) error {
	if s.m.failEventRecord != nil {
		return s.m.failEventRecord
	}
	s.m.writes++
	s.m.events = append(s.m.events, h)
	return nil
}

func (s *memEvents) WithTx(tx pgx.Tx) EventRecorder { return s }
