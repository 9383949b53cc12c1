package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bank-account-ledger/internal/domain/history"
	"github.com/bank-account-ledger/internal/platform/messaging/producers"
	"github.com/bank-account-ledger/internal/projector/service"
)

// HistoryEventHandler feeds history events from Kafka into the statement projection
type HistoryEventHandler struct {
	projection service.ProjectionService
	dlq        producers.DeadLetterPublisher
	logger     *slog.Logger
}

func NewHistoryEventHandler(logger *slog.Logger, projection service.ProjectionService, dlq producers.DeadLetterPublisher) *HistoryEventHandler {
	return &HistoryEventHandler{
		projection: projection,
		dlq:        dlq,
		logger:     logger,
	}
}

// HandleMessage returns nil when the offset may be committed. Events that can
// never be projected are parked on the DLQ; projection failures are returned
// so the message is fetched again.
func (h *HistoryEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event history.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return h.reject(ctx, key, value, "undecodable history event", err)
	}
	if err := event.Validate(); err != nil {
		return h.reject(ctx, key, value, "malformed history event", err)
	}

	logger := h.logger.With("history_id", event.HistoryID.String())
	if event.CorrelationID != "" {
		logger = logger.With("correlation_id", event.CorrelationID)
	}
	logger.Debug("Received history event", "kind", event.Kind, "amount", event.Amount)

	if err := h.projection.Project(ctx, &event); err != nil {
		logger.Error("Failed to project history event", "error", err)
		return fmt.Errorf("projecting history event %s failed: %w", event.HistoryID, err)
	}
	return nil
}

// reject parks an event that can never be projected. Without a DLQ the event
// is dropped so it does not block its partition.
func (h *HistoryEventHandler) reject(ctx context.Context, key, value []byte, reason string, cause error) error {
	h.logger.Error("Rejecting history event", "message_key", string(key), "reason", reason, "error", cause)

	if h.dlq == nil {
		h.logger.Warn("No DLQ configured, dropping history event", "message_key", string(key))
		return nil
	}
	dlqReason := fmt.Sprintf("%s: %s", reason, cause)
	err := h.dlq.PublishToDLQ(ctx, string(key), value, dlqReason)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, producers.ErrDLQDisabled):
		h.logger.Warn("DLQ disabled, dropping history event", "message_key", string(key))
		return nil
	default:
		h.logger.Error("Failed to publish rejected history event to DLQ",
			"message_key", string(key),
			"dlq_error", err,
		)
		return fmt.Errorf("%s: %w", reason, cause)
	}
}
