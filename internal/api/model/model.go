package model

import (
	"time"

	"github.com/lib/pq"
)

// Item is a persisted lost or found report.
type Item struct {
	ItemID      string         `db:"item_id"`
	UserID      string         `db:"user_id"`
	ItemType    string         `db:"item_type"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Category    string         `db:"category"`
	Location    string         `db:"location"`
	OccurredAt  time.Time      `db:"occurred_at"`
	ContactInfo string         `db:"contact_info"` // JSON string
	ImageURLs   pq.StringArray `db:"image_urls"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
