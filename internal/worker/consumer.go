package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/lostfoundhq/lostfound-be/internal/worker/domain"
)

// setupConsumer configures QoS and starts consuming from the match queue
func (w *Worker) setupConsumer() (<-chan amqp.Delivery, error) {
	if err := w.queue.SetQos(w.prefetchCount); err != nil {
		return nil, err
	}

	deliveries, err := w.queue.Consume(w.workerID)
	if err != nil {
		return nil, err
	}

	w.logger.Info("Match queue consumer started",
		slog.String("worker_id", w.workerID),
		slog.Int("prefetch_count", w.prefetchCount),
	)

	return deliveries, nil
}

// startMessageDispatcher reads queue deliveries and hands jobs to the worker
// pool. Malformed messages are NACKed without requeue so the broker's
// dead-letter policy can take them.
func (w *Worker) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	w.logger.Info("Message dispatcher started",
		slog.String("worker_id", w.workerID),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Message dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("Delivery channel closed")
				return
			}

			msg, err := parseJobMessage(delivery)
			if err != nil {
				w.logger.Error("Discarding malformed job message",
					slog.String("body", string(delivery.Body)),
					slog.String("error", err.Error()),
				)
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					w.logger.Error("Failed to NACK malformed message",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			select {
			case w.jobsChan <- msg:
				w.logger.Debug("Job dispatched to worker pool",
					slog.String("item_id", msg.ItemID),
					slog.Uint64("delivery_tag", msg.DeliveryTag),
				)
			case <-ctx.Done():
				w.logger.Info("Message dispatcher stopped while dispatching job")
				// Requeue so the job is picked up after restart
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					w.logger.Error("Failed to NACK message on shutdown",
						slog.String("error", nackErr.Error()),
					)
				}
				return
			}
		}
	}
}

// parseJobMessage validates the delivery body and wraps it with its
// acknowledger.
func parseJobMessage(delivery amqp.Delivery) (*domain.JobMessage, error) {
	var msg domain.JobMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		return nil, domain.ErrInvalidMessage
	}

	if _, err := uuid.Parse(msg.ItemID); err != nil {
		return nil, domain.ErrInvalidMessage
	}

	msg.DeliveryTag = delivery.DeliveryTag
	msg.Acker = delivery.Acknowledger

	return &msg, nil
}
