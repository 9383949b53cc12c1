package statement

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages statement entries with pagination support
type Repository interface {
	// Create stores entry; ErrDuplicateEntry when the (history, account) pair already exists
	Create(ctx context.Context, entry *Entry) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Entry, error)
	CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// ErrDuplicateEntry indicates the entry was already projected
type ErrDuplicateEntry struct {
	HistoryID uuid.UUID
	AccountID uuid.UUID
}

func (e ErrDuplicateEntry) Error() string {
	return "duplicate statement entry: " + e.HistoryID.String() + "/" + e.AccountID.String()
}

// Is matches any ErrDuplicateEntry when the target carries no ids
func (e ErrDuplicateEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateEntry)
	if !ok {
		return false
	}
	if t.HistoryID == uuid.Nil {
		return true
	}
	return e.HistoryID == t.HistoryID && e.AccountID == t.AccountID
}
