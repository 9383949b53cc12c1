package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bank-account-ledger/internal/domain/account"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const accountKeyPrefix = "ledger:account:"

// snapshot is the cached form of an account. The password hash is never cached.
type snapshot struct {
	ID        uuid.UUID `json:"id"`
	Number    string    `json:"number"`
	UserID    string    `json:"user_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountCache stores account snapshots keyed by account id
type AccountCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewAccountCache(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *AccountCache {
	return &AccountCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func accountKey(id uuid.UUID) string {
	return accountKeyPrefix + id.String()
}

// Get returns nil, nil on a miss
func (c *AccountCache) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	raw, err := c.client.Get(ctx, accountKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached account %s: %w", id, err)
	}

	var s snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		c.logger.Warn("Discarding unreadable cached account", "account_id", id.String(), "error", err)
		if err := c.client.Del(ctx, accountKey(id)).Err(); err != nil {
			c.logger.Warn("Failed to evict unreadable cached account", "account_id", id.String(), "error", err)
		}
		return nil, nil
	}

	return &account.Account{
		ID:        s.ID,
		Number:    s.Number,
		UserID:    s.UserID,
		Balance:   s.Balance,
		CreatedAt: s.CreatedAt,
	}, nil
}

func (c *AccountCache) Set(ctx context.Context, acc *account.Account) error {
	raw, err := json.Marshal(snapshot{
		ID:        acc.ID,
		Number:    acc.Number,
		UserID:    acc.UserID,
		Balance:   acc.Balance,
		CreatedAt: acc.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode account %s: %w", acc.ID, err)
	}
	if err := c.client.Set(ctx, accountKey(acc.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache account %s: %w", acc.ID, err)
	}
	return nil
}

// Evict drops the snapshots of ids. Missing keys are not an error.
func (c *AccountCache) Evict(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, accountKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to evict accounts: %w", err)
	}
	return nil
}
