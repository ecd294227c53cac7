package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidQuery is returned when a match query is missing required fields
var ErrInvalidQuery = errors.New("invalid match query")

// MatchQuery is a normalized lost/found report description submitted to the
// similarity engine.
type MatchQuery struct {
	ID          string         `json:"id"`
	Item        string         `json:"item"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	Date        time.Time      `json:"date"`
	ContactInfo map[string]any `json:"contact_info,omitempty"`
	ImageURLs   []string       `json:"image_urls,omitempty"`
}

// Normalize fills in the correlation ID and submission date when the caller
// did not supply them.
func (q *MatchQuery) Normalize() {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.Date.IsZero() {
		q.Date = time.Now().UTC()
	}
}

// Validate checks that all required fields are present. A field that is
// omitted and a field that is an empty string are both invalid.
func (q *MatchQuery) Validate() error {
	if strings.TrimSpace(q.Item) == "" {
		return fmt.Errorf("%w: item is required", ErrInvalidQuery)
	}
	if strings.TrimSpace(q.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidQuery)
	}
	if strings.TrimSpace(q.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidQuery)
	}
	return nil
}

// CandidateItem holds the counterpart report carried by a match candidate.
type CandidateItem struct {
	Item        string `json:"item"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// MatchCandidate is one scored result from the similarity engine. Exactly one
// of FoundItem or LostItem is set, depending on the query direction.
type MatchCandidate struct {
	Score     float64        `json:"score"`
	FoundItem *CandidateItem `json:"found_item,omitempty"`
	LostItem  *CandidateItem `json:"lost_item,omitempty"`
}

// Counterpart returns whichever side of the candidate is populated.
func (c MatchCandidate) Counterpart() *CandidateItem {
	if c.FoundItem != nil {
		return c.FoundItem
	}
	return c.LostItem
}

// MatchResult is the engine response envelope. Matches preserves the engine's
// native ranking order. Error is set only when Success is false.
type MatchResult struct {
	Success bool             `json:"success"`
	Matches []MatchCandidate `json:"matches"`
	Error   string           `json:"error,omitempty"`
}

// HealthInfo reports the similarity engine's availability.
type HealthInfo struct {
	Status string `json:"status"`
}

// MatchOutcome is the result of one matching run for a stored item.
type MatchOutcome struct {
	ItemID    string           `json:"item_id"`
	Direction string           `json:"direction"`
	Matches   []MatchCandidate `json:"matches"`
}
