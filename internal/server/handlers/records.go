package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/server/storage"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/pkg/api"
)

const defaultPageSize = 100

// Publisher fans record changes out to realtime subscribers.
type Publisher interface {
	Publish(event api.ChangeEvent)
}

// RecordsHandler serves the CRUD endpoints of the synchronized tables.
type RecordsHandler struct {
	logger    *slog.Logger
	store     storage.RecordStorage
	publisher Publisher
	now       func() time.Time
}

// NewRecordsHandler создает handler для таблиц
func NewRecordsHandler(logger *slog.Logger, store storage.RecordStorage, publisher Publisher) *RecordsHandler {
	return &RecordsHandler{
		logger:    logger,
		store:     store,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List обрабатывает GET /v1/tables/{table}/records
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table := chi.URLParam(r, "table")
	if _, err := codecOf(table); err != nil {
		h.fail(w, r, err)
		return
	}

	opts, err := listOptions(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	records, total, err := h.store.ListRecords(ctx, table, opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := api.RecordListResponse{
		Records: make([]json.RawMessage, 0, len(records)),
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, rec.Data)
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get обрабатывает GET /v1/tables/{table}/records/{id}
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	table, id := chi.URLParam(r, "table"), chi.URLParam(r, "id")
	if _, err := codecOf(table); err != nil {
		h.fail(w, r, err)
		return
	}

	rec, err := h.store.GetRecord(r.Context(), table, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.sendRecord(w, rec.Data, http.StatusOK)
}

// Insert обрабатывает POST /v1/tables/{table}/records.
// Версия новой записи всегда 1.
func (h *RecordsHandler) Insert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table := chi.URLParam(r, "table")
	codec, err := codecOf(table)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	doc, err := decodeBody(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	now := h.now()
	stamp, _ := json.Marshal(now)
	doc.setVersion(1)
	doc.setDefault("is_active", json.RawMessage("true"))
	doc.setDefault("created_at", stamp)
	doc.setDefault("updated_at", stamp)

	rec, data, err := codec.canonical(doc)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	stored := &storage.Record{
		Table:     table,
		ID:        rec.RecordID(),
		Data:      data,
		Version:   1,
		IsActive:  rec.Active(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.InsertRecord(ctx, stored); err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "record created",
		slog.String("table", table),
		slog.String("id", stored.ID),
		slog.String("user_id", userID(r)))
	h.publisher.Publish(api.ChangeEvent{Type: api.EventInsert, Table: table, ID: stored.ID, Record: data})
	h.sendRecord(w, data, http.StatusCreated)
}

// Update обрабатывает PATCH /v1/tables/{table}/records/{id}.
// Патч сливается с текущей записью поверхностно, версия растет на 1.
func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table, id := chi.URLParam(r, "table"), chi.URLParam(r, "id")
	codec, err := codecOf(table)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req api.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, apperrors.Wrap(apperrors.CodeValidation, err, "invalid request body"))
		return
	}
	patch, err := decodeFields(req.Patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	current, err := h.store.GetRecord(ctx, table, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if req.ExpectedVersion > 0 && req.ExpectedVersion != current.Version {
		h.conflict(w, r, apperrors.Conflict(table, id, req.ExpectedVersion, current.Version), current.Version)
		return
	}

	doc, err := decodeFields(current.Data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	now := h.now()
	stamp, _ := json.Marshal(now)
	doc.merge(patch)
	doc.setVersion(current.Version + 1)
	if _, ok := patch["updated_at"]; !ok {
		doc["updated_at"] = stamp
	}

	rec, data, err := codec.canonical(doc)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	next := &storage.Record{
		Table:     table,
		ID:        id,
		Data:      data,
		Version:   current.Version + 1,
		IsActive:  rec.Active(),
		CreatedAt: current.CreatedAt,
		UpdatedAt: now,
	}
	if err := h.store.UpdateRecord(ctx, next, current.Version); err != nil {
		if errors.Is(err, storage.ErrVersionMismatch) {
			h.conflict(w, r, apperrors.Newf(apperrors.CodeConflict, "%s record %q was modified concurrently", table, id), 0)
			return
		}
		h.fail(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "record updated",
		slog.String("table", table),
		slog.String("id", id),
		slog.Int64("version", next.Version),
		slog.String("user_id", userID(r)))
	h.publisher.Publish(api.ChangeEvent{Type: api.EventUpdate, Table: table, ID: id, Record: data})
	h.sendRecord(w, data, http.StatusOK)
}

// Delete обрабатывает DELETE /v1/tables/{table}/records/{id}
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table, id := chi.URLParam(r, "table"), chi.URLParam(r, "id")
	if _, err := codecOf(table); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.store.DeleteRecord(ctx, table, id); err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "record deleted",
		slog.String("table", table),
		slog.String("id", id),
		slog.String("user_id", userID(r)))
	h.publisher.Publish(api.ChangeEvent{Type: api.EventDelete, Table: table, ID: id})
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordsHandler) sendRecord(w http.ResponseWriter, data json.RawMessage, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write record", slog.Any("error", err))
	}
}

// fail переводит ошибку хранилища или валидации в ответ
func (h *RecordsHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	table, id := chi.URLParam(r, "table"), chi.URLParam(r, "id")
	switch {
	case errors.Is(err, storage.ErrRecordNotFound):
		sendError(h.logger, w, apperrors.CodeNotFound, apperrors.NotFound(table, id).Message())
	case errors.Is(err, storage.ErrRecordExists):
		sendError(h.logger, w, apperrors.CodeConflict, table+" record already exists")
	default:
		appErr, ok := apperrors.As(err)
		if !ok || appErr.Code() == apperrors.CodeInternal {
			h.logger.ErrorContext(r.Context(), "records request failed",
				slog.String("table", table), slog.Any("error", err))
			sendInternalError(h.logger, w)
			return
		}
		sendError(h.logger, w, appErr.Code(), appErr.Error())
	}
}

func (h *RecordsHandler) conflict(w http.ResponseWriter, r *http.Request, err *apperrors.Error, current int64) {
	h.logger.WarnContext(r.Context(), "update conflict",
		slog.String("table", chi.URLParam(r, "table")),
		slog.String("id", chi.URLParam(r, "id")),
		slog.Int64("current_version", current))
	sendJSON(h.logger, w, api.ErrorResponse{
		Error:          http.StatusText(http.StatusConflict),
		Message:        err.Message(),
		Code:           string(apperrors.CodeConflict),
		CurrentVersion: current,
	}, http.StatusConflict)
}

func decodeBody(r *http.Request) (fields, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid request body")
	}
	return decodeFields(raw)
}

func listOptions(r *http.Request) (storage.ListOptions, error) {
	q := r.URL.Query()
	opts := storage.ListOptions{Limit: defaultPageSize}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, apperrors.Validation("limit must be a positive integer")
		}
		opts.Limit = min(n, api.MaxPageSize)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, apperrors.Validation("offset must be a non-negative integer")
		}
		opts.Offset = n
	}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return opts, apperrors.Validation("active must be a boolean")
		}
		opts.ActiveOnly = active
	}
	return opts, nil
}

func userID(r *http.Request) string {
	id, _ := GetUserID(r.Context())
	return id
}
