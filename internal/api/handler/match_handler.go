package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lostfoundhq/lostfound-be/internal/api/dto"
	matchdomain "github.com/lostfoundhq/lostfound-be/internal/match/domain"
	"github.com/lostfoundhq/lostfound-be/internal/match/filter"
)

const defaultHealthTimeout = 5 * time.Second

// CheckLostMatches handles POST /api/v1/match/lost
// Searches the found corpus for counterparts of a lost report.
func (h *MatchHandler) CheckLostMatches(c *gin.Context) {
	h.checkMatches(c, h.engine.MatchLostItem)
}

// CheckFoundMatches handles POST /api/v1/match/found
// Searches the lost corpus for counterparts of a found report.
func (h *MatchHandler) CheckFoundMatches(c *gin.Context) {
	h.checkMatches(c, h.engine.MatchFoundItem)
}

func (h *MatchHandler) checkMatches(c *gin.Context, match func(context.Context, matchdomain.MatchQuery) matchdomain.MatchResult) {
	var req dto.MatchCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	query := matchdomain.MatchQuery{
		Item:        req.Item,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		ContactInfo: req.ContactInfo,
		ImageURLs:   req.ImageURLs,
	}
	query.Normalize()
	if err := query.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	result := match(c.Request.Context(), query)
	if !result.Success {
		h.logger.Error("Similarity engine unavailable",
			slog.String("query_id", query.ID),
			slog.String("error", result.Error),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": result.Error,
		})
		return
	}

	matches := filter.Apply(result.Matches, query.Item, req.Category)

	h.logger.Info("Match check completed",
		slog.String("query_id", query.ID),
		slog.Int("raw_candidates", len(result.Matches)),
		slog.Int("filtered_candidates", len(matches)),
	)

	c.JSON(http.StatusOK, gin.H{
		"query_id": query.ID,
		"matches":  matches,
	})
}

// EngineHealth handles GET /api/v1/match/health
// Probes the similarity engine and maps its state to 200/503.
func (h *MatchHandler) EngineHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.healthTimeout)
	defer cancel()

	health, err := h.engine.CheckHealth(ctx)
	if err != nil {
		h.logger.Warn("Similarity engine health probe failed",
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": health.Status,
	})
}
