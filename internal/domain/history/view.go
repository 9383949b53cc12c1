package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Direction selects which history rows of an account are returned
type Direction string

const (
	DirectionAll        Direction = "all"
	DirectionWithdrawal Direction = "withdrawal"
	DirectionDeposit    Direction = "deposit"
)

// ParseDirection accepts "all", "withdrawal" or "deposit" (case-insensitive);
// an empty string means all.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DirectionAll, nil
	case DirectionAll, DirectionWithdrawal, DirectionDeposit:
		return d, nil
	default:
		return "", fmt.Errorf("unknown history direction %q", s)
	}
}

// View is a history row as seen from one account, joined with the account
// numbers of both sides.
type View struct {
	ID        uuid.UUID `json:"id"`
	Amount    int64     `json:"amount"`
	Balance   int64     `json:"balance"`  // the queried account's balance after the movement
	Sender    string    `json:"sender"`   // withdrawal account number, empty for deposits
	Receiver  string    `json:"receiver"` // deposit account number, empty for withdrawals
	CreatedAt time.Time `json:"created_at"`
}

func (v *View) FormattedAmount() string {
	return FormatAmount(v.Amount)
}

func (v *View) FormattedBalance() string {
	return FormatAmount(v.Balance)
}

func (v *View) FormattedCreatedAt() string {
	return FormatTimestamp(v.CreatedAt)
}
