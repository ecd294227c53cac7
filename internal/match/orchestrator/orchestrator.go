package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lostfoundhq/lostfound-be/internal/match/domain"
	"github.com/lostfoundhq/lostfound-be/internal/match/filter"
)

const (
	ItemTypeLost  = "LOST"
	ItemTypeFound = "FOUND"
)

var (
	// ErrItemNotFound is returned when the referenced item does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrEngineUnavailable is returned when the similarity engine fails to
	// answer a match query
	ErrEngineUnavailable = errors.New("similarity engine unavailable")
)

// Item is the stored report a matching run operates on.
type Item struct {
	ID          string
	Type        string
	UserID      string
	Name        string
	Description string
	Category    string
	Location    string
	OccurredAt  time.Time
	ImageURLs   []string
}

// ItemSource loads stored items for matching runs.
type ItemSource interface {
	GetItemByID(ctx context.Context, itemID string) (*Item, error)
}

// MatchStore persists discovered candidates for an item.
type MatchStore interface {
	ReplaceItemMatches(ctx context.Context, itemID, direction string, matches []domain.MatchCandidate) error
}

// Engine is the similarity client surface the orchestrator depends on.
type Engine interface {
	MatchLostItem(ctx context.Context, query domain.MatchQuery) domain.MatchResult
	MatchFoundItem(ctx context.Context, query domain.MatchQuery) domain.MatchResult
}

// Orchestrator glues item lookup, the similarity client and the relevance
// filter into one matching run per item.
type Orchestrator struct {
	items   ItemSource
	matches MatchStore
	engine  Engine
	logger  *slog.Logger
}

// New creates a new Orchestrator instance
func New(items ItemSource, matches MatchStore, engine Engine, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		items:   items,
		matches: matches,
		engine:  engine,
		logger:  logger,
	}
}

// RunMatchingForItem loads the item, queries the similarity engine in the
// direction implied by the item type, filters the raw candidates and
// replaces the item's stored candidate set. Each run overwrites the previous
// one, so re-delivery of the same job converges to the same state.
func (o *Orchestrator) RunMatchingForItem(ctx context.Context, itemID string) (*domain.MatchOutcome, error) {
	item, err := o.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item %s: %w", itemID, err)
	}

	query := domain.MatchQuery{
		ID:          item.ID,
		Item:        item.Name,
		Description: item.Description,
		Location:    item.Location,
		Date:        item.OccurredAt,
		ImageURLs:   item.ImageURLs,
	}
	query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("stored item %s yields invalid query: %w", itemID, err)
	}

	var result domain.MatchResult
	switch item.Type {
	case ItemTypeLost:
		result = o.engine.MatchLostItem(ctx, query)
	case ItemTypeFound:
		result = o.engine.MatchFoundItem(ctx, query)
	default:
		return nil, fmt.Errorf("item %s has unknown type %q", itemID, item.Type)
	}

	if !result.Success {
		return nil, fmt.Errorf("%w: %s", ErrEngineUnavailable, result.Error)
	}

	matches := filter.Apply(result.Matches, item.Name, item.Category)

	o.logger.Info("Matching run completed",
		slog.String("item_id", item.ID),
		slog.String("item_type", item.Type),
		slog.Int("raw_candidates", len(result.Matches)),
		slog.Int("filtered_candidates", len(matches)),
	)

	if err := o.matches.ReplaceItemMatches(ctx, item.ID, item.Type, matches); err != nil {
		return nil, fmt.Errorf("failed to persist matches for item %s: %w", itemID, err)
	}

	return &domain.MatchOutcome{
		ItemID:    item.ID,
		Direction: item.Type,
		Matches:   matches,
	}, nil
}
