package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lostfoundhq/lostfound-be/internal/match/domain"
)

const (
	matchLostPath  = "/api/v1/match/lost"
	matchFoundPath = "/api/v1/match/found"
	healthPath     = "/health"
)

// Config holds similarity engine connection configuration
type Config struct {
	BaseURL string
}

// Client is the typed boundary to the external similarity-scoring engine.
// Each call is a single attempt with no internal timeout; callers bound
// latency through the context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new similarity engine client
func NewClient(config *Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// MatchLostItem searches the found corpus for items similar to a lost report.
func (c *Client) MatchLostItem(ctx context.Context, query domain.MatchQuery) domain.MatchResult {
	return c.match(ctx, matchLostPath, query)
}

// MatchFoundItem searches the lost corpus for items similar to a found report.
func (c *Client) MatchFoundItem(ctx context.Context, query domain.MatchQuery) domain.MatchResult {
	return c.match(ctx, matchFoundPath, query)
}

// match posts the query and normalizes the engine response. Transport and
// engine-side failures are captured in the result envelope so callers can
// render a degraded-service response instead of crashing.
func (c *Client) match(ctx context.Context, path string, query domain.MatchQuery) domain.MatchResult {
	body, err := json.Marshal(query)
	if err != nil {
		return failure(fmt.Sprintf("failed to encode match query: %s", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return failure(fmt.Sprintf("failed to build engine request: %s", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Similarity engine request failed",
			slog.String("path", path),
			slog.String("query_id", query.ID),
			slog.Any("error", err),
		)
		return failure(fmt.Sprintf("similarity engine unreachable: %s", err))
	}
	defer resp.Body.Close()

	var result domain.MatchResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&result); err != nil {
		c.logger.Error("Failed to decode engine response",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Any("error", err),
		)
		return failure(fmt.Sprintf("similarity engine returned status %d", resp.StatusCode))
	}

	if resp.StatusCode != http.StatusOK && result.Error == "" {
		return failure(fmt.Sprintf("similarity engine returned status %d", resp.StatusCode))
	}

	if !result.Success && result.Error == "" {
		result.Error = "similarity engine reported failure"
	}

	c.logger.Debug("Similarity engine responded",
		slog.String("path", path),
		slog.String("query_id", query.ID),
		slog.Bool("success", result.Success),
		slog.Int("matches", len(result.Matches)),
	)

	return result
}

// CheckHealth probes the engine's liveness endpoint. An unreachable or
// unhealthy engine is returned as an error so callers can map it to a
// 503-class response.
func (c *Client) CheckHealth(ctx context.Context) (*domain.HealthInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("similarity engine unreachable: %w", err)
	}
	defer resp.Body.Close()

	var health domain.HealthInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("similarity engine unhealthy: status %d (%s)", resp.StatusCode, health.Status)
	}

	return &health, nil
}

func failure(message string) domain.MatchResult {
	return domain.MatchResult{
		Success: false,
		Error:   message,
	}
}
