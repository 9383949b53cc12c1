package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bank-account-ledger/internal/config"
	"github.com/bank-account-ledger/internal/domain/outbox"
	"github.com/bank-account-ledger/internal/domain/shared"
	"github.com/bank-account-ledger/internal/platform/messaging/producers"
	"github.com/jackc/pgx/v5"
)

// Transactor runs fn inside one database transaction
type Transactor interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Poller relays pending outbox rows to the history topic. Each batch is read
// with SKIP LOCKED inside one transaction, so several workers can poll the
// same table without publishing a row twice per round.
type Poller struct {
	transactor       Transactor
	outboxRepo       outbox.Repository
	publisher        producers.MessagePublisher
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	transactor Transactor,
	outboxRepo outbox.Repository,
	publisher producers.MessagePublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		transactor:       transactor,
		outboxRepo:       outboxRepo,
		publisher:        publisher,
		logger:           logger.With("component", "outbox_poller"),
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start polls until ctx is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting outbox poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox poller stopping")
			return
		case <-ticker.C:
			if _, err := p.RelayBatch(ctx); err != nil {
				p.logger.Error("Outbox batch aborted", "error", err)
			}
		}
	}
}

// RelayBatch publishes up to one batch of pending rows and returns how many
// reached the broker. Publish failures are recorded on the row; only store
// failures abort the batch.
func (p *Poller) RelayBatch(ctx context.Context) (int, error) {
	published := 0
	err := p.transactor.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := p.outboxRepo.WithTx(tx)

		messages, err := repo.GetPending(ctx, p.batchSize)
		if err != nil {
			return fmt.Errorf("failed to get pending outbox messages: %w", err)
		}
		if len(messages) == 0 {
			return nil
		}
		p.logger.Debug("Fetched pending outbox messages", "count", len(messages))

		for _, msg := range messages {
			ok, err := p.relay(ctx, repo, msg)
			if err != nil {
				return err
			}
			if ok {
				published++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, nil
}

func (p *Poller) relay(ctx context.Context, repo outbox.Repository, msg *outbox.Message) (bool, error) {
	logger := p.logger.With("outbox_id", msg.ID, "history_id", msg.HistoryID.String())

	event, err := msg.Event()
	if err != nil {
		logger.Error("Outbox payload is not a history event, giving up on it", "error", err)
		if err := repo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusFailedToPublish); err != nil {
			return false, fmt.Errorf("failed to mark outbox %d as failed: %w", msg.ID, err)
		}
		msg.MarkAsFailed()
		return false, nil
	}
	if event.CorrelationID != "" {
		logger = logger.With("correlation_id", event.CorrelationID)
	}

	if err := p.publisher.Publish(ctx, msg.HistoryID.String(), msg.Payload); err != nil {
		logger.Warn("Failed to publish history event", "attempt", msg.Attempts+1, "error", err)

		if err := repo.IncrementAttempts(ctx, msg.ID); err != nil {
			return false, fmt.Errorf("failed to increment attempts for outbox %d: %w", msg.ID, err)
		}
		msg.IncrementAttempts()

		if msg.Attempts >= p.maxRetryAttempts {
			logger.Error("Max publish attempts reached, marking outbox message as FAILED_TO_PUBLISH", "attempts", msg.Attempts)
			if err := repo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusFailedToPublish); err != nil {
				return false, fmt.Errorf("failed to mark outbox %d as failed: %w", msg.ID, err)
			}
			msg.MarkAsFailed()
		}
		return false, nil
	}

	if err := repo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusProcessed); err != nil {
		// The event is already on the topic; it will be sent again after rollback
		// and the projection skips the duplicate.
		return false, fmt.Errorf("published history %s but failed to mark outbox %d as processed: %w", msg.HistoryID, msg.ID, err)
	}
	msg.MarkAsProcessed()
	logger.Info("History event published")
	return true, nil
}
