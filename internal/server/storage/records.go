package storage

import (
	"context"
	"encoding/json"
	"time"
)

//go:generate moq -out records_mock.go . RecordStorage

// Record is a row of a synchronized table as the backend stores it.
// Data holds the full JSON document including version and is_active.
type Record struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Table     string
	ID        string
	Data      json.RawMessage
	Version   int64
	IsActive  bool
}

// ListOptions pages through a table ordered by creation time.
type ListOptions struct {
	Limit      int
	Offset     int
	ActiveOnly bool
}

// RecordStorage persists the documents of every synchronized table.
type RecordStorage interface {
	// InsertRecord returns ErrRecordExists if the id is taken in the table.
	InsertRecord(ctx context.Context, rec *Record) error

	// GetRecord returns ErrRecordNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, table, id string) (*Record, error)

	// ListRecords returns one page and the number of matching rows.
	ListRecords(ctx context.Context, table string, opts ListOptions) ([]*Record, int, error)

	// UpdateRecord replaces the record only while its stored version still
	// equals expected. Returns ErrVersionMismatch otherwise.
	UpdateRecord(ctx context.Context, rec *Record, expected int64) error

	DeleteRecord(ctx context.Context, table, id string) error
}
