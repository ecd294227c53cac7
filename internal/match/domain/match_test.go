package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchQuery_Validate(t *testing.T) {
	valid := MatchQuery{
		Item:        "blue backpack",
		Description: "jansport with laptop inside",
		Location:    "central library",
	}

	tests := []struct {
		name      string
		mutate    func(q *MatchQuery)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid query",
			mutate:  func(q *MatchQuery) {},
			wantErr: false,
		},
		{
			name:      "missing item",
			mutate:    func(q *MatchQuery) { q.Item = "" },
			wantErr:   true,
			errString: "item is required",
		},
		{
			name:      "whitespace-only item",
			mutate:    func(q *MatchQuery) { q.Item = "   " },
			wantErr:   true,
			errString: "item is required",
		},
		{
			name:      "missing description",
			mutate:    func(q *MatchQuery) { q.Description = "" },
			wantErr:   true,
			errString: "description is required",
		},
		{
			name:      "missing location",
			mutate:    func(q *MatchQuery) { q.Location = "" },
			wantErr:   true,
			errString: "location is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			tt.mutate(&q)

			err := q.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidQuery)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMatchQuery_Normalize(t *testing.T) {
	t.Run("fills id and date", func(t *testing.T) {
		q := MatchQuery{Item: "phone", Description: "black", Location: "bus"}
		q.Normalize()

		assert.NotEmpty(t, q.ID)
		assert.False(t, q.Date.IsZero())
	})

	t.Run("keeps caller-supplied values", func(t *testing.T) {
		date := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		q := MatchQuery{ID: "query-1", Date: date}
		q.Normalize()

		assert.Equal(t, "query-1", q.ID)
		assert.Equal(t, date, q.Date)
	})
}

func TestMatchCandidate_Counterpart(t *testing.T) {
	foundSide := &CandidateItem{Item: "found phone"}
	lostSide := &CandidateItem{Item: "lost phone"}

	assert.Equal(t, foundSide, MatchCandidate{FoundItem: foundSide}.Counterpart())
	assert.Equal(t, lostSide, MatchCandidate{LostItem: lostSide}.Counterpart())
	assert.Nil(t, MatchCandidate{}.Counterpart())
}
