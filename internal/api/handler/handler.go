package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/lostfoundhq/lostfound-be/internal/api/model"
	"github.com/lostfoundhq/lostfound-be/internal/api/storage"
	matchdomain "github.com/lostfoundhq/lostfound-be/internal/match/domain"
)

// ItemStore is the persistence surface the handlers depend on.
type ItemStore interface {
	CreateItem(ctx context.Context, item *model.Item) error
	GetItemByID(ctx context.Context, itemID string) (*model.Item, error)
	ListItems(ctx context.Context, filter storage.ItemFilter) ([]model.Item, error)
	ResolveItem(ctx context.Context, itemID string) error
}

// MatchEnqueuer schedules background match discovery for a created item.
type MatchEnqueuer interface {
	Enqueue(ctx context.Context, itemID string) error
}

// MatchEngine is the similarity client surface used by the synchronous
// match-check endpoints.
type MatchEngine interface {
	MatchLostItem(ctx context.Context, query matchdomain.MatchQuery) matchdomain.MatchResult
	MatchFoundItem(ctx context.Context, query matchdomain.MatchQuery) matchdomain.MatchResult
	CheckHealth(ctx context.Context) (*matchdomain.HealthInfo, error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger   *slog.Logger
	Store    ItemStore
	Enqueuer MatchEnqueuer
	Engine   MatchEngine

	// EngineHealthTimeout bounds the engine health probe. Zero means the
	// default probe timeout.
	EngineHealthTimeout time.Duration
}

// ItemHandler handles item-related HTTP requests
type ItemHandler struct {
	logger   *slog.Logger
	store    ItemStore
	enqueuer MatchEnqueuer
}

// NewItemHandler creates a new ItemHandler instance
func NewItemHandler(deps *Dependencies) *ItemHandler {
	return &ItemHandler{
		logger:   deps.Logger,
		store:    deps.Store,
		enqueuer: deps.Enqueuer,
	}
}

// MatchHandler handles the synchronous match-check HTTP requests
type MatchHandler struct {
	logger        *slog.Logger
	engine        MatchEngine
	healthTimeout time.Duration
}

// NewMatchHandler creates a new MatchHandler instance
func NewMatchHandler(deps *Dependencies) *MatchHandler {
	healthTimeout := deps.EngineHealthTimeout
	if healthTimeout <= 0 {
		healthTimeout = defaultHealthTimeout
	}

	return &MatchHandler{
		logger:        deps.Logger,
		engine:        deps.Engine,
		healthTimeout: healthTimeout,
	}
}
