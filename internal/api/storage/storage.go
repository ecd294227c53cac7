package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lostfoundhq/lostfound-be/internal/api/domain"
	"github.com/lostfoundhq/lostfound-be/internal/api/model"
	"github.com/lostfoundhq/lostfound-be/shared/postgresql"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

func (s *Storage) CreateItem(ctx context.Context, item *model.Item) error {
	query := `
		INSERT INTO items (
			item_id, user_id, item_type, name, description,
			category, location, occurred_at, contact_info, image_urls,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		item.ItemID,
		item.UserID,
		item.ItemType,
		item.Name,
		item.Description,
		item.Category,
		item.Location,
		item.OccurredAt,
		item.ContactInfo,
		item.ImageURLs,
		item.Status,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

func (s *Storage) GetItemByID(ctx context.Context, itemID string) (*model.Item, error) {
	var item model.Item
	query := `
		SELECT
			item_id, user_id, item_type, name, description,
			category, location, occurred_at, contact_info, image_urls,
			status, created_at, updated_at
		FROM items
		WHERE item_id = $1
	`

	err := s.db.GetContext(ctx, &item, query, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &item, nil
}

// ResolveItem marks an open report as resolved. Returns ErrItemNotFound when
// the item does not exist or is already resolved.
func (s *Storage) ResolveItem(ctx context.Context, itemID string) error {
	query := `
		UPDATE items
		SET status = $1,
		    updated_at = NOW()
		WHERE item_id = $2
		  AND status = $3
	`

	result, err := s.db.ExecContext(ctx, query, domain.ItemStatusResolved, itemID, domain.ItemStatusOpen)
	if err != nil {
		return fmt.Errorf("failed to resolve item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

type ItemFilter struct {
	Type     string
	Status   string
	Category string
	PageSize int
	Cursor   *ItemCursor
}

type ItemCursor struct {
	CreatedAt time.Time
	ItemID    string
}

func (s *Storage) ListItems(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	query := `
        SELECT
            item_id, user_id, item_type, name, description,
            category, location, occurred_at, contact_info, image_urls,
            status, created_at, updated_at
        FROM items
        WHERE 1=1
    `
	args := []interface{}{}
	argIdx := 1

	// Filters
	if filter.Type != "" {
		query += fmt.Sprintf(" AND item_type = $%d", argIdx)
		args = append(args, filter.Type)
		argIdx++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, item_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.ItemID)
		argIdx += 2
	}

	// Order by created_at DESC, item_id DESC for consistent pagination
	query += " ORDER BY created_at DESC, item_id DESC"

	// Fetch one extra to determine if there are more results
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var items []model.Item
	err := s.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}
