package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lostfoundhq/lostfound-be/internal/match/orchestrator"
	"github.com/lostfoundhq/lostfound-be/internal/worker/domain"
)

// processJob runs match orchestration for one delivered job. The job moves
// delivered -> running -> completed|failed; redelivery of failures is the
// broker's concern.
func (w *Worker) processJob(ctx context.Context, msg *domain.JobMessage) error {
	w.logger.Info("Processing match job",
		slog.String("item_id", msg.ItemID),
		slog.String("worker_id", w.workerID),
	)

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	outcome, err := w.matcher.RunMatchingForItem(jobCtx, msg.ItemID)
	if err != nil {
		w.logger.Error("Match job failed",
			slog.String("item_id", msg.ItemID),
			slog.String("worker_id", w.workerID),
			slog.String("error", err.Error()),
		)

		if errors.Is(err, orchestrator.ErrItemNotFound) {
			return fmt.Errorf("match job for missing item: %w", err)
		}

		// Engine outages, timeouts and storage failures are transient
		return domain.NewRetryableError(err)
	}

	w.logger.Info("Match job completed",
		slog.String("item_id", outcome.ItemID),
		slog.String("direction", outcome.Direction),
		slog.Int("matches", len(outcome.Matches)),
	)

	return nil
}
