package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	matchdomain "github.com/lostfoundhq/lostfound-be/internal/match/domain"
	"github.com/lostfoundhq/lostfound-be/internal/match/orchestrator"
)

// Storage handles all database operations for the match worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// GetItemByID loads the stored report a matching run operates on
func (s *Storage) GetItemByID(ctx context.Context, itemID string) (*orchestrator.Item, error) {
	query := `
		SELECT item_id, item_type, user_id, name, description, category, location, occurred_at, image_urls
		FROM items
		WHERE item_id = $1
	`

	var (
		item      orchestrator.Item
		category  sql.NullString
		imageURLs pq.StringArray
	)

	err := s.db.QueryRowContext(ctx, query, itemID).Scan(
		&item.ID,
		&item.Type,
		&item.UserID,
		&item.Name,
		&item.Description,
		&category,
		&item.Location,
		&item.OccurredAt,
		&imageURLs,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orchestrator.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if category.Valid {
		item.Category = category.String
	}
	item.ImageURLs = imageURLs

	return &item, nil
}

// ReplaceItemMatches atomically swaps the stored candidate set for an item.
// Running the same job twice leaves the same rows behind, which keeps the
// at-least-once delivery contract safe.
func (s *Storage) ReplaceItemMatches(ctx context.Context, itemID, direction string, matches []matchdomain.MatchCandidate) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_matches WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to clear previous matches: %w", err)
	}

	insert := `
		INSERT INTO item_matches (
			match_id, item_id, direction, score,
			matched_name, matched_description, matched_category, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now().UTC()
	for _, match := range matches {
		counterpart := match.Counterpart()
		if counterpart == nil {
			continue
		}

		_, err := tx.ExecContext(ctx, insert,
			uuid.New().String(),
			itemID,
			direction,
			match.Score,
			counterpart.Item,
			counterpart.Description,
			counterpart.Category,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert match: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit matches: %w", err)
	}

	s.logger.Info("Item matches replaced",
		slog.String("item_id", itemID),
		slog.String("direction", direction),
		slog.Int("matches", len(matches)),
	)

	return nil
}
