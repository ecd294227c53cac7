package matchqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lostfoundhq/lostfound-be/shared/rabbitmq"
)

// ErrQueueUnavailable is returned when the backing queue cannot accept a job.
// Producer-path callers treat this as non-fatal and log it instead of
// surfacing it.
var ErrQueueUnavailable = errors.New("match queue unavailable")

// publishTimeout bounds the enqueue round trip so a slow broker cannot drag
// down producer-path latency.
const publishTimeout = 2 * time.Second

// JobPayload is the wire format of one queued match-discovery request.
type JobPayload struct {
	ItemID string `json:"item_id"`
}

// Publisher schedules background match-discovery work on the durable queue.
type Publisher struct {
	rabbit *rabbitmq.Client
	logger *slog.Logger
}

// NewPublisher creates a new Publisher instance
func NewPublisher(rabbit *rabbitmq.Client, logger *slog.Logger) *Publisher {
	return &Publisher{
		rabbit: rabbit,
		logger: logger,
	}
}

// Enqueue publishes a match job for the given item. A single attempt with a
// short timeout; failure is reported as ErrQueueUnavailable.
func (p *Publisher) Enqueue(ctx context.Context, itemID string) error {
	body, err := json.Marshal(JobPayload{ItemID: itemID})
	if err != nil {
		return fmt.Errorf("failed to encode match job: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.rabbit.Publish(publishCtx, body, "application/json"); err != nil {
		return fmt.Errorf("%w: %s", ErrQueueUnavailable, err)
	}

	p.logger.Debug("Match job enqueued",
		slog.String("item_id", itemID),
	)

	return nil
}
