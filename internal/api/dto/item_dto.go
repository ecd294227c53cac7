package dto

import "time"

type CreateItemRequest struct {
	UserID      string         `json:"user_id" binding:"required"`
	Type        string         `json:"type" binding:"required"`
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Location    string         `json:"location" binding:"required"`
	Category    string         `json:"category"`
	OccurredAt  time.Time      `json:"occurred_at"`
	ContactInfo map[string]any `json:"contact_info"`
	ImageURLs   []string       `json:"image_urls"`
}

type ListItemsRequest struct {
	Type     string `form:"type"`
	Status   string `form:"status"`
	Category string `form:"category"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type ListItemsResponse struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type ItemDTO struct {
	ItemID      string   `json:"item_id"`
	UserID      string   `json:"user_id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Location    string   `json:"location"`
	OccurredAt  string   `json:"occurred_at"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// MatchCheckRequest is the payload of the synchronous match-check endpoints.
type MatchCheckRequest struct {
	Item        string         `json:"item" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Location    string         `json:"location" binding:"required"`
	Category    string         `json:"category"`
	Date        time.Time      `json:"date"`
	ContactInfo map[string]any `json:"contact_info"`
	ImageURLs   []string       `json:"image_urls"`
}
