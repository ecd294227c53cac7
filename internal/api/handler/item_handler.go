package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lostfoundhq/lostfound-be/internal/api/domain"
	"github.com/lostfoundhq/lostfound-be/internal/api/dto"
	"github.com/lostfoundhq/lostfound-be/internal/api/model"
	"github.com/lostfoundhq/lostfound-be/internal/api/storage"
)

// CreateItem handles POST /api/v1/items
// Persists a lost/found report and schedules background match discovery.
// The enqueue step is best-effort: the report has already been persisted, so
// a queue failure is logged and the request still succeeds.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if !domain.ValidItemType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "type must be LOST or FOUND",
		})
		return
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	var contactInfo string
	if req.ContactInfo != nil {
		raw, err := json.Marshal(req.ContactInfo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid contact_info",
			})
			return
		}
		contactInfo = string(raw)
	}

	now := time.Now().UTC()
	item := model.Item{
		ItemID:      uuid.New().String(),
		UserID:      req.UserID,
		ItemType:    req.Type,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		OccurredAt:  occurredAt,
		ContactInfo: contactInfo,
		ImageURLs:   req.ImageURLs,
		Status:      domain.ItemStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateItem(c.Request.Context(), &item); err != nil {
		h.logger.Error("Failed to create item", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create item",
		})
		return
	}

	if err := h.enqueuer.Enqueue(c.Request.Context(), item.ItemID); err != nil {
		h.logger.Warn("Failed to schedule match discovery",
			slog.String("item_id", item.ItemID),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(http.StatusCreated, itemToDTO(&item))
}

// GetItem handles GET /api/v1/items/:item_id
func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID := c.Param("item_id")

	if _, err := uuid.Parse(itemID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "item_id must be a valid UUID",
		})
		return
	}

	item, err := h.store.GetItemByID(c.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found",
			})
			return
		}
		h.logger.Error("Failed to get item",
			slog.String("item_id", itemID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get item",
		})
		return
	}

	c.JSON(http.StatusOK, itemToDTO(item))
}

// ListItems handles GET /api/v1/items
// Lists items with optional filtering and cursor pagination
func (h *ItemHandler) ListItems(c *gin.Context) {
	var req dto.ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeItemCursor(req.Cursor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	filter := storage.ItemFilter{
		Type:     req.Type,
		Status:   req.Status,
		Category: req.Category,
		PageSize: req.PageSize,
		Cursor:   cursor,
	}

	items, err := h.store.ListItems(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list items", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list items",
		})
		return
	}

	hasMore := len(items) > req.PageSize
	if hasMore {
		items = items[:req.PageSize]
	}

	itemResponse := make([]dto.ItemDTO, len(items))
	for i, item := range items {
		itemResponse[i] = itemToDTO(&item)
	}

	var nextCursor string
	if hasMore {
		lastItem := items[len(items)-1]
		cursorObj := storage.ItemCursor{
			CreatedAt: lastItem.CreatedAt,
			ItemID:    lastItem.ItemID,
		}
		nextCursor, err = EncodeItemCursor(&cursorObj)
		if err != nil {
			h.logger.Error("Failed to encode next cursor", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to encode next cursor",
			})
			return
		}
	}

	c.JSON(http.StatusOK, dto.ListItemsResponse{
		Items:      itemResponse,
		NextCursor: nextCursor,
	})
}

// ResolveItem handles POST /api/v1/items/:item_id/resolve
// Marks an open report as resolved once the item has been recovered.
func (h *ItemHandler) ResolveItem(c *gin.Context) {
	itemID := c.Param("item_id")

	if _, err := uuid.Parse(itemID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "item_id must be a valid UUID",
		})
		return
	}

	if err := h.store.ResolveItem(c.Request.Context(), itemID); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found or already resolved",
			})
			return
		}
		h.logger.Error("Failed to resolve item",
			slog.String("item_id", itemID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve item",
		})
		return
	}

	h.logger.Info("Item resolved",
		slog.String("item_id", itemID),
	)

	c.JSON(http.StatusOK, gin.H{
		"item_id": itemID,
		"status":  domain.ItemStatusResolved,
	})
}

func itemToDTO(item *model.Item) dto.ItemDTO {
	return dto.ItemDTO{
		ItemID:      item.ItemID,
		UserID:      item.UserID,
		Type:        item.ItemType,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Location:    item.Location,
		OccurredAt:  item.OccurredAt.Format(time.RFC3339),
		ImageURLs:   item.ImageURLs,
		Status:      item.Status,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
}
