// Package store is the local record store: a typed, indexed mirror of the
// remote tables kept in the device database.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

// ListOptions filters full scans.
type ListOptions struct {
	// IncludeInactive returns soft-deactivated records too.
	IncludeInactive bool
}

// Store is the local store of one table.
type Store[T models.Record] struct {
	driver storage.RecordStorage
	logger *slog.Logger
	now    func() time.Time
	schema Schema[T]
}

// New creates a store for schema.Table backed by driver.
func New[T models.Record](driver storage.RecordStorage, schema Schema[T], logger *slog.Logger) *Store[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[T]{
		driver: driver,
		schema: schema,
		logger: logger.With("table", schema.Table),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Table returns the table name.
func (s *Store[T]) Table() string {
	return s.schema.Table
}

// GetAll returns every record, active ones only unless opts says otherwise.
func (s *Store[T]) GetAll(ctx context.Context, opts ListOptions) ([]T, error) {
	raw, err := s.driver.ListRecords(ctx, s.schema.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.schema.Table, err)
	}
	return s.decodeAll(raw, opts)
}

// GetByID returns the record or a NOT_FOUND error.
func (s *Store[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T

	raw, err := s.driver.GetRecord(ctx, s.schema.Table, id)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return zero, apperrors.NotFound(s.schema.Table, id)
		}
		return zero, fmt.Errorf("failed to get %s %s: %w", s.schema.Table, id, err)
	}
	return s.decode(raw)
}

// Add stores a new record stamped with the current time. It fails if the id
// is already present.
func (s *Store[T]) Add(ctx context.Context, rec T) error {
	if rec.RecordID() == "" {
		return apperrors.Validation("%s record id is required", s.schema.Table)
	}
	rec.Stamp(s.now())

	if err := s.schema.validate(rec); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", s.schema.Table, err)
	}

	err = s.driver.InsertRecord(ctx, s.schema.Table, rec.RecordID(), data, s.schema.indexValues(rec))
	if errors.Is(err, storage.ErrRecordExists) {
		return apperrors.Validation("%s record %q already exists", s.schema.Table, rec.RecordID())
	}
	if err != nil {
		return fmt.Errorf("failed to add %s record: %w", s.schema.Table, err)
	}
	return nil
}

// Update loads the record, applies mutate, stamps updated_at and saves it.
func (s *Store[T]) Update(ctx context.Context, id string, mutate func(T) error) (T, error) {
	var zero T

	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := mutate(rec); err != nil {
		return zero, err
	}
	if rec.RecordID() != id {
		return zero, apperrors.Validation("%s record id is immutable", s.schema.Table)
	}
	rec.Touch(s.now())

	if err := s.schema.validate(rec); err != nil {
		return zero, err
	}
	if err := s.put(ctx, rec); err != nil {
		return zero, err
	}
	return rec, nil
}

// Deactivate soft-deletes the record.
func (s *Store[T]) Deactivate(ctx context.Context, id string) (T, error) {
	return s.setActive(ctx, id, false)
}

// Activate restores a soft-deleted record.
func (s *Store[T]) Activate(ctx context.Context, id string) (T, error) {
	return s.setActive(ctx, id, true)
}

func (s *Store[T]) setActive(ctx context.Context, id string, active bool) (T, error) {
	var zero T

	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	rec.SetActive(active, s.now())

	if err := s.put(ctx, rec); err != nil {
		return zero, err
	}
	return rec, nil
}

// HardDelete removes the record permanently. Deleting a missing id is not an
// error.
func (s *Store[T]) HardDelete(ctx context.Context, id string) error {
	if err := s.driver.DeleteRecord(ctx, s.schema.Table, id); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", s.schema.Table, id, err)
	}
	return nil
}

// FindBy returns the records whose secondary index equals value.
func (s *Store[T]) FindBy(ctx context.Context, index, value string, opts ListOptions) ([]T, error) {
	if _, ok := s.schema.Indexes[index]; !ok {
		return nil, apperrors.Validation("%s cannot be searched by %q (indexes: %v)", s.schema.Table, index, s.schema.IndexNames())
	}

	raw, err := s.driver.FindRecords(ctx, s.schema.Table, index, value)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", s.schema.Table, err)
	}
	return s.decodeAll(raw, opts)
}

// Upsert stores rec as-is, replacing any record with the same id. It is the
// single apply path of remote changes: applying the same record twice leaves
// the store unchanged.
func (s *Store[T]) Upsert(ctx context.Context, rec T) error {
	if rec.RecordID() == "" {
		return apperrors.Validation("%s record id is required", s.schema.Table)
	}
	return s.put(ctx, rec)
}

// ApplyRemote decodes a server record and upserts it.
func (s *Store[T]) ApplyRemote(ctx context.Context, raw json.RawMessage) error {
	rec, err := s.decode(raw)
	if err != nil {
		return err
	}
	if err := s.Upsert(ctx, rec); err != nil {
		return err
	}
	s.logger.Debug("applied remote record", "id", rec.RecordID(), "version", rec.RecordVersion())
	return nil
}

// RemoveRemote applies a remote delete.
func (s *Store[T]) RemoveRemote(ctx context.Context, id string) error {
	return s.HardDelete(ctx, id)
}

// IDs returns the ids of every stored record, inactive included.
func (s *Store[T]) IDs(ctx context.Context) ([]string, error) {
	recs, err := s.GetAll(ctx, ListOptions{IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.RecordID())
	}
	return ids, nil
}

func (s *Store[T]) put(ctx context.Context, rec T) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", s.schema.Table, err)
	}
	if err := s.driver.PutRecord(ctx, s.schema.Table, rec.RecordID(), data, s.schema.indexValues(rec)); err != nil {
		return fmt.Errorf("failed to save %s record %s: %w", s.schema.Table, rec.RecordID(), err)
	}
	return nil
}

func (s *Store[T]) decode(raw []byte) (T, error) {
	var rec T
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return rec, apperrors.Validation("%s record payload is null", s.schema.Table)
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("failed to decode %s record: %w", s.schema.Table, err)
	}
	return rec, nil
}

func (s *Store[T]) decodeAll(raw [][]byte, opts ListOptions) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, data := range raw {
		rec, err := s.decode(data)
		if err != nil {
			return nil, err
		}
		if !opts.IncludeInactive && !rec.Active() {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordID() < out[j].RecordID() })
	return out, nil
}
