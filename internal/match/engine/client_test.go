package engine

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lostfoundhq/lostfound-be/internal/match/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testQuery() domain.MatchQuery {
	q := domain.MatchQuery{
		Item:        "blue backpack",
		Description: "jansport with laptop inside",
		Location:    "central library",
	}
	q.Normalize()
	return q
}

func TestClient_MatchLostItem(t *testing.T) {
	var gotPath string
	var gotQuery domain.MatchQuery

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotQuery))

		json.NewEncoder(w).Encode(domain.MatchResult{
			Success: true,
			Matches: []domain.MatchCandidate{
				{Score: 0.82, FoundItem: &domain.CandidateItem{Item: "Backpack, blue Jansport", Description: "found near library"}},
				{Score: 0.64, FoundItem: &domain.CandidateItem{Item: "blue bag", Description: "left at station"}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL}, discardLogger())
	query := testQuery()

	result := client.MatchLostItem(context.Background(), query)

	require.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Equal(t, "/api/v1/match/lost", gotPath)
	assert.Equal(t, query.Item, gotQuery.Item)

	// Engine ranking order preserved
	require.Len(t, result.Matches, 2)
	assert.Equal(t, 0.82, result.Matches[0].Score)
	assert.Equal(t, 0.64, result.Matches[1].Score)
}

func TestClient_MatchFoundItem(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(domain.MatchResult{Success: true})
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL}, discardLogger())

	result := client.MatchFoundItem(context.Background(), testQuery())

	assert.True(t, result.Success)
	assert.Equal(t, "/api/v1/match/found", gotPath)
}

func TestClient_MatchEngineFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "engine reports failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(domain.MatchResult{
					Success: false,
					Error:   "vector index unavailable",
				})
			},
		},
		{
			name: "non-json error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("upstream timeout"))
			},
		},
		{
			name: "success false without message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(domain.MatchResult{Success: false})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(&Config{BaseURL: srv.URL}, discardLogger())

			result := client.MatchLostItem(context.Background(), testQuery())

			// Failures are captured in the envelope, never raised
			assert.False(t, result.Success)
			assert.NotEmpty(t, result.Error)
			assert.Empty(t, result.Matches)
		})
	}
}

func TestClient_MatchEngineUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL}, discardLogger())

	result := client.MatchLostItem(context.Background(), testQuery())

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "similarity engine unreachable")
}

func TestClient_CheckHealth(t *testing.T) {
	t.Run("healthy engine", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			json.NewEncoder(w).Encode(domain.HealthInfo{Status: "healthy"})
		}))
		defer srv.Close()

		client := NewClient(&Config{BaseURL: srv.URL}, discardLogger())

		health, err := client.CheckHealth(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "healthy", health.Status)
	})

	t.Run("unhealthy engine", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(domain.HealthInfo{Status: "degraded"})
		}))
		defer srv.Close()

		client := NewClient(&Config{BaseURL: srv.URL}, discardLogger())

		health, err := client.CheckHealth(context.Background())
		require.Error(t, err)
		assert.Nil(t, health)
		assert.Contains(t, err.Error(), "similarity engine unhealthy")
	})

	t.Run("unreachable engine", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		client := NewClient(&Config{BaseURL: srv.URL}, discardLogger())

		_, err := client.CheckHealth(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "similarity engine unreachable")
	})
}

func TestClient_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client := NewClient(&Config{BaseURL: srv.URL}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := client.MatchLostItem(ctx, testQuery())
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}
