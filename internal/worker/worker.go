package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	matchdomain "github.com/lostfoundhq/lostfound-be/internal/match/domain"
	"github.com/lostfoundhq/lostfound-be/internal/worker/domain"
)

// QueueConsumer is the broker surface the worker pulls jobs from.
type QueueConsumer interface {
	SetQos(prefetchCount int) error
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// Matcher runs match discovery for one stored item.
type Matcher interface {
	RunMatchingForItem(ctx context.Context, itemID string) (*matchdomain.MatchOutcome, error)
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Queue         QueueConsumer
	Matcher       Matcher
	Enabled       bool
	Concurrency   int
	PrefetchCount int
	JobTimeout    time.Duration
}

// Worker is the long-running match-discovery consumer.
type Worker struct {
	logger        *slog.Logger
	queue         QueueConsumer
	matcher       Matcher
	enabled       bool
	concurrency   int
	prefetchCount int
	jobTimeout    time.Duration
	workerID      string
	jobsChan      chan *domain.JobMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:        cfg.Logger,
		queue:         cfg.Queue,
		matcher:       cfg.Matcher,
		enabled:       cfg.Enabled,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		jobTimeout:    cfg.JobTimeout,
		workerID:      "match-worker-" + uuid.New().String()[:8],
		jobsChan:      make(chan *domain.JobMessage),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming match jobs. When the worker is disabled it touches
// nothing and returns immediately, so environments without a broker start
// cleanly. Start blocks until the context is canceled or the delivery
// channel closes.
func (w *Worker) Start(ctx context.Context) error {
	if !w.enabled {
		w.logger.Info("Match worker disabled, skipping queue connection")
		return nil
	}

	w.logger.Info("Starting match worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker and waits for in-flight jobs
func (w *Worker) Stop() {
	w.logger.Info("Stopping match worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Match worker stopped")
}
