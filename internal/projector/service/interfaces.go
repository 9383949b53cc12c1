package service

import (
	"context"

	"github.com/bank-account-ledger/internal/domain/history"
)

// ProjectionService turns a committed history event into statement entries.
// Projecting the same event twice must leave the statement unchanged.
type ProjectionService interface {
	Project(ctx context.Context, event *history.Event) error
}
