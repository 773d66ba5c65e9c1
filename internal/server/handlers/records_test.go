package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/server/storage"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/server/storage/sqlite"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/pkg/api"
)

type recordedEvents struct {
	events []api.ChangeEvent
	mu     sync.Mutex
}

func (r *recordedEvents) Publish(event api.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

func setupRecords(t *testing.T) (http.Handler, *recordedEvents) {
	t.Helper()
	db, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	events := &recordedEvents{}
	return recordsRouter(NewRecordsHandler(setupTestLogger(), db, events)), events
}

const addressesPath = "/v1/tables/addresses/records"

func newAddressBody(id string) map[string]any {
	return map[string]any{
		"id":         id,
		"department": "Littoral",
		"commune":    "Cotonou",
		"district":   "Akpakpa",
		"is_active":  true,
		"version":    7,
	}
}

func TestRecordsHandler_Insert(t *testing.T) {
	h, events := setupRecords(t)

	w := doJSON(t, h, http.MethodPost, addressesPath, newAddressBody("a-1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got := decodeJSON[models.Address](t, w)
	assert.Equal(t, "a-1", got.ID)
	assert.Equal(t, int64(1), got.Version, "server assigns the first version")
	assert.True(t, got.IsActive)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, []string{api.EventInsert}, events.types())

	w = doJSON(t, h, http.MethodPost, addressesPath, newAddressBody("a-1"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(apperrors.CodeConflict), decodeJSON[api.ErrorResponse](t, w).Code)
}

func TestRecordsHandler_Insert_Invalid(t *testing.T) {
	h, events := setupRecords(t)

	tests := []struct {
		body   any
		name   string
		path   string
		status int
	}{
		{
			name:   "missing commune",
			path:   addressesPath,
			body:   map[string]any{"id": "a-1", "department": "Littoral"},
			status: http.StatusBadRequest,
		},
		{
			name:   "not an object",
			path:   addressesPath,
			body:   `["a-1"]`,
			status: http.StatusBadRequest,
		},
		{
			name: "order without items",
			path: "/v1/tables/orders/records",
			body: map[string]any{
				"id": "o-1", "type": "takeaway", "status": "pending",
				"client": map[string]any{"name": "Awa"},
			},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown table",
			path:   "/v1/tables/menus/records",
			body:   map[string]any{"id": "m-1"},
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
	assert.Empty(t, events.types())
}

func TestRecordsHandler_InsertOrder(t *testing.T) {
	h, _ := setupRecords(t)

	order := models.NewOrder("o-1", models.OrderInput{
		Type:   models.OrderTypeTakeaway,
		Client: models.ClientInfo{Name: "Awa"},
		Items:  []models.OrderItem{{Name: "Sandwich poulet", Quantity: 2, UnitPrice: decimal.NewFromInt(1500)}},
	})
	w := doJSON(t, h, http.MethodPost, "/v1/tables/orders/records", order)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got := decodeJSON[models.Order](t, w)
	assert.True(t, got.Total().Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, int64(1), got.Version)
}

func TestRecordsHandler_Update(t *testing.T) {
	h, events := setupRecords(t)
	require.Equal(t, http.StatusCreated, doJSON(t, h, http.MethodPost, addressesPath, newAddressBody("a-1")).Code)

	w := doJSON(t, h, http.MethodPatch, addressesPath+"/a-1", api.UpdateRequest{
		Patch:           json.RawMessage(`{"label":"Maison bleue","id":"hijack","version":99}`),
		ExpectedVersion: 1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decodeJSON[models.Address](t, w)
	assert.Equal(t, "a-1", got.ID)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, "Maison bleue", got.Label)
	assert.Equal(t, "Akpakpa", got.District, "fields absent from the patch are kept")

	// Устаревшая версия
	w = doJSON(t, h, http.MethodPatch, addressesPath+"/a-1", api.UpdateRequest{
		Patch:           json.RawMessage(`{"label":"Autre"}`),
		ExpectedVersion: 1,
	})
	require.Equal(t, http.StatusConflict, w.Code)
	resp := decodeJSON[api.ErrorResponse](t, w)
	assert.Equal(t, string(apperrors.CodeConflict), resp.Code)
	assert.Equal(t, int64(2), resp.CurrentVersion)

	// Без ожидаемой версии побеждает последняя запись
	w = doJSON(t, h, http.MethodPatch, addressesPath+"/a-1", api.UpdateRequest{
		Patch: json.RawMessage(`{"is_active":false}`),
	})
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeJSON[models.Address](t, w)
	assert.False(t, got.IsActive)
	assert.Equal(t, int64(3), got.Version)

	w = doJSON(t, h, http.MethodGet, addressesPath+"?active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decodeJSON[api.RecordListResponse](t, w).Total)

	assert.Equal(t, []string{api.EventInsert, api.EventUpdate, api.EventUpdate}, events.types())
}

func TestRecordsHandler_Update_Errors(t *testing.T) {
	h, _ := setupRecords(t)
	require.Equal(t, http.StatusCreated, doJSON(t, h, http.MethodPost, addressesPath, newAddressBody("a-1")).Code)

	tests := []struct {
		body   any
		name   string
		path   string
		status int
	}{
		{
			name:   "missing record",
			path:   addressesPath + "/missing",
			body:   api.UpdateRequest{Patch: json.RawMessage(`{"label":"x"}`)},
			status: http.StatusNotFound,
		},
		{
			name:   "patch breaks validation",
			path:   addressesPath + "/a-1",
			body:   api.UpdateRequest{Patch: json.RawMessage(`{"commune":""}`)},
			status: http.StatusBadRequest,
		},
		{
			name:   "patch is not an object",
			path:   addressesPath + "/a-1",
			body:   api.UpdateRequest{Patch: json.RawMessage(`"label"`)},
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed body",
			path:   addressesPath + "/a-1",
			body:   "{",
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestRecordsHandler_Update_ConcurrentWrite(t *testing.T) {
	now := time.Now().UTC()
	store := &storage.RecordStorageMock{
		GetRecordFunc: func(ctx context.Context, table, id string) (*storage.Record, error) {
			data, _ := json.Marshal(models.Address{ID: id, Department: "Littoral", Commune: "Cotonou", Version: 3, IsActive: true})
			return &storage.Record{Table: table, ID: id, Data: data, Version: 3, IsActive: true, CreatedAt: now, UpdatedAt: now}, nil
		},
		UpdateRecordFunc: func(ctx context.Context, rec *storage.Record, expected int64) error {
			return storage.ErrVersionMismatch
		},
	}
	events := &recordedEvents{}
	h := recordsRouter(NewRecordsHandler(setupTestLogger(), store, events))

	w := doJSON(t, h, http.MethodPatch, addressesPath+"/a-1", api.UpdateRequest{Patch: json.RawMessage(`{"label":"x"}`)})
	assert.Equal(t, http.StatusConflict, w.Code)

	calls := store.UpdateRecordCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(3), calls[0].Expected)
	assert.Equal(t, int64(4), calls[0].Rec.Version)
	assert.Empty(t, events.types())
}

func TestRecordsHandler_ListPaging(t *testing.T) {
	h, _ := setupRecords(t)
	for _, id := range []string{"a-1", "a-2", "a-3"} {
		require.Equal(t, http.StatusCreated, doJSON(t, h, http.MethodPost, addressesPath, newAddressBody(id)).Code)
	}

	tests := []struct {
		name      string
		query     string
		status    int
		wantCount int
		wantLimit int
	}{
		{name: "default page", query: "", status: http.StatusOK, wantCount: 3, wantLimit: defaultPageSize},
		{name: "small page", query: "?limit=2", status: http.StatusOK, wantCount: 2, wantLimit: 2},
		{name: "offset", query: "?limit=2&offset=2", status: http.StatusOK, wantCount: 1, wantLimit: 2},
		{name: "limit is capped", query: "?limit=100000", status: http.StatusOK, wantCount: 3, wantLimit: api.MaxPageSize},
		{name: "bad limit", query: "?limit=zero", status: http.StatusBadRequest},
		{name: "negative offset", query: "?offset=-1", status: http.StatusBadRequest},
		{name: "bad active flag", query: "?active=peut-etre", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, http.MethodGet, addressesPath+tt.query, nil)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				return
			}
			page := decodeJSON[api.RecordListResponse](t, w)
			assert.Equal(t, 3, page.Total)
			assert.Len(t, page.Records, tt.wantCount)
			assert.Equal(t, tt.wantLimit, page.Limit)
		})
	}
}

func TestRecordsHandler_GetAndDelete(t *testing.T) {
	h, events := setupRecords(t)
	require.Equal(t, http.StatusCreated, doJSON(t, h, http.MethodPost, addressesPath, newAddressBody("a-1")).Code)

	w := doJSON(t, h, http.MethodGet, addressesPath+"/a-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cotonou", decodeJSON[models.Address](t, w).Commune)

	w = doJSON(t, h, http.MethodDelete, addressesPath+"/a-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodDelete, addressesPath+"/a-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(apperrors.CodeNotFound), decodeJSON[api.ErrorResponse](t, w).Code)

	w = doJSON(t, h, http.MethodGet, addressesPath+"/a-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, []string{api.EventInsert, api.EventDelete}, events.types())
}

func TestRecordsHandler_StorageFailure(t *testing.T) {
	store := &storage.RecordStorageMock{
		ListRecordsFunc: func(ctx context.Context, table string, opts storage.ListOptions) ([]*storage.Record, int, error) {
			return nil, 0, errors.New("database is locked")
		},
	}
	h := recordsRouter(NewRecordsHandler(setupTestLogger(), store, &recordedEvents{}))

	w := doJSON(t, h, http.MethodGet, addressesPath, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "locked")
}
