package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lostfoundhq/lostfound-be/internal/api/domain"
	"github.com/lostfoundhq/lostfound-be/internal/api/dto"
	"github.com/lostfoundhq/lostfound-be/internal/api/model"
	"github.com/lostfoundhq/lostfound-be/internal/api/storage"
	"github.com/lostfoundhq/lostfound-be/internal/matchqueue"
)

type fakeItemStore struct {
	created    *model.Item
	createErr  error
	items      map[string]*model.Item
	listResult []model.Item
	listErr    error
	listFilter storage.ItemFilter
	resolved   []string
	resolveErr error
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{items: map[string]*model.Item{}}
}

func (f *fakeItemStore) CreateItem(ctx context.Context, item *model.Item) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = item
	f.items[item.ItemID] = item
	return nil
}

func (f *fakeItemStore) GetItemByID(ctx context.Context, itemID string) (*model.Item, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (f *fakeItemStore) ListItems(ctx context.Context, filter storage.ItemFilter) ([]model.Item, error) {
	f.listFilter = filter
	return f.listResult, f.listErr
}

func (f *fakeItemStore) ResolveItem(ctx context.Context, itemID string) error {
	if f.resolveErr != nil {
		return f.resolveErr
	}
	f.resolved = append(f.resolved, itemID)
	return nil
}

type fakeEnqueuer struct {
	itemIDs []string
	err     error
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, itemID string) error {
	f.itemIDs = append(f.itemIDs, itemID)
	return f.err
}

func newItemTestRouter(store ItemStore, enqueuer MatchEnqueuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewItemHandler(&Dependencies{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:    store,
		Enqueuer: enqueuer,
	})

	router := gin.New()
	router.POST("/api/v1/items", h.CreateItem)
	router.GET("/api/v1/items", h.ListItems)
	router.GET("/api/v1/items/:item_id", h.GetItem)
	router.POST("/api/v1/items/:item_id/resolve", h.ResolveItem)
	return router
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validCreateRequest() dto.CreateItemRequest {
	return dto.CreateItemRequest{
		UserID:      "user-7",
		Type:        domain.ItemTypeLost,
		Name:        "blue backpack",
		Description: "jansport with a laptop inside",
		Location:    "central library",
		Category:    "Bags",
		ContactInfo: map[string]any{"email": "owner@example.com"},
		ImageURLs:   []string{"https://cdn.example.com/items/1.jpg"},
	}
}

func TestCreateItem(t *testing.T) {
	store := newFakeItemStore()
	enqueuer := &fakeEnqueuer{}
	router := newItemTestRouter(store, enqueuer)

	rec := performJSON(router, http.MethodPost, "/api/v1/items", validCreateRequest())

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.ItemDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ItemID)
	assert.Equal(t, domain.ItemTypeLost, resp.Type)
	assert.Equal(t, "blue backpack", resp.Name)
	assert.Equal(t, domain.ItemStatusOpen, resp.Status)

	// Match discovery is scheduled for the stored item
	require.NotNil(t, store.created)
	assert.Equal(t, []string{store.created.ItemID}, enqueuer.itemIDs)
	assert.JSONEq(t, `{"email":"owner@example.com"}`, store.created.ContactInfo)
}

func TestCreateItem_QueueUnavailableStillCreated(t *testing.T) {
	store := newFakeItemStore()
	enqueuer := &fakeEnqueuer{err: fmt.Errorf("%w: broker connection closed", matchqueue.ErrQueueUnavailable)}
	router := newItemTestRouter(store, enqueuer)

	rec := performJSON(router, http.MethodPost, "/api/v1/items", validCreateRequest())

	// The report outlives the queue outage
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, store.created)
	assert.Len(t, enqueuer.itemIDs, 1)
}

func TestCreateItem_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreateItemRequest)
	}{
		{
			name:   "missing name",
			mutate: func(r *dto.CreateItemRequest) { r.Name = "" },
		},
		{
			name:   "missing description",
			mutate: func(r *dto.CreateItemRequest) { r.Description = "" },
		},
		{
			name:   "missing location",
			mutate: func(r *dto.CreateItemRequest) { r.Location = "" },
		},
		{
			name:   "missing user id",
			mutate: func(r *dto.CreateItemRequest) { r.UserID = "" },
		},
		{
			name:   "unknown item type",
			mutate: func(r *dto.CreateItemRequest) { r.Type = "MISPLACED" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeItemStore()
			enqueuer := &fakeEnqueuer{}
			router := newItemTestRouter(store, enqueuer)

			req := validCreateRequest()
			tt.mutate(&req)
			rec := performJSON(router, http.MethodPost, "/api/v1/items", req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, store.created)
			assert.Empty(t, enqueuer.itemIDs)
		})
	}
}

func TestCreateItem_StoreFailure(t *testing.T) {
	store := newFakeItemStore()
	store.createErr = errors.New("connection refused")
	enqueuer := &fakeEnqueuer{}
	router := newItemTestRouter(store, enqueuer)

	rec := performJSON(router, http.MethodPost, "/api/v1/items", validCreateRequest())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, enqueuer.itemIDs, "failed persist must not schedule matching")
}

func TestGetItem(t *testing.T) {
	store := newFakeItemStore()
	itemID := uuid.New().String()
	store.items[itemID] = &model.Item{
		ItemID:   itemID,
		UserID:   "user-7",
		ItemType: domain.ItemTypeFound,
		Name:     "black umbrella",
		Status:   domain.ItemStatusOpen,
	}
	router := newItemTestRouter(store, &fakeEnqueuer{})

	t.Run("found", func(t *testing.T) {
		rec := performJSON(router, http.MethodGet, "/api/v1/items/"+itemID, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.ItemDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, itemID, resp.ItemID)
		assert.Equal(t, "black umbrella", resp.Name)
	})

	t.Run("not found", func(t *testing.T) {
		rec := performJSON(router, http.MethodGet, "/api/v1/items/"+uuid.New().String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := performJSON(router, http.MethodGet, "/api/v1/items/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResolveItem(t *testing.T) {
	store := newFakeItemStore()
	itemID := uuid.New().String()
	router := newItemTestRouter(store, &fakeEnqueuer{})

	t.Run("resolved", func(t *testing.T) {
		rec := performJSON(router, http.MethodPost, "/api/v1/items/"+itemID+"/resolve", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{itemID}, store.resolved)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.ItemStatusResolved, resp["status"])
	})

	t.Run("already resolved", func(t *testing.T) {
		store.resolveErr = domain.ErrItemNotFound
		rec := performJSON(router, http.MethodPost, "/api/v1/items/"+itemID+"/resolve", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListItems(t *testing.T) {
	makeItems := func(n int) []model.Item {
		items := make([]model.Item, n)
		base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
		for i := range items {
			items[i] = model.Item{
				ItemID:    uuid.New().String(),
				UserID:    "user-7",
				ItemType:  domain.ItemTypeLost,
				Name:      fmt.Sprintf("item %d", i),
				Status:    domain.ItemStatusOpen,
				CreatedAt: base.Add(-time.Duration(i) * time.Minute),
			}
		}
		return items
	}

	t.Run("first page with next cursor", func(t *testing.T) {
		store := newFakeItemStore()
		// One extra row signals another page
		store.listResult = makeItems(3)
		router := newItemTestRouter(store, &fakeEnqueuer{})

		rec := performJSON(router, http.MethodGet, "/api/v1/items?page_size=2&type=LOST", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.ListItemsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Items, 2)
		assert.NotEmpty(t, resp.NextCursor)
		assert.Equal(t, "LOST", store.listFilter.Type)
		assert.Equal(t, 2, store.listFilter.PageSize)

		// The cursor points at the last returned row
		cursor, err := DecodeItemCursor(resp.NextCursor)
		require.NoError(t, err)
		assert.Equal(t, store.listResult[1].ItemID, cursor.ItemID)
	})

	t.Run("last page", func(t *testing.T) {
		store := newFakeItemStore()
		store.listResult = makeItems(2)
		router := newItemTestRouter(store, &fakeEnqueuer{})

		rec := performJSON(router, http.MethodGet, "/api/v1/items?page_size=2", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.ListItemsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Items, 2)
		assert.Empty(t, resp.NextCursor)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		store := newFakeItemStore()
		router := newItemTestRouter(store, &fakeEnqueuer{})

		rec := performJSON(router, http.MethodGet, "/api/v1/items?cursor=%21%21%21", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
