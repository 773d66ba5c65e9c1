package storage

import "context"

//go:generate moq -out records_mock.go . RecordStorage

// RecordStorage is the persistent local storage driver: raw JSON values keyed
// by id inside a table, with secondary indexes maintained on write.
type RecordStorage interface {
	// PutRecord inserts or replaces a record and rewrites its index entries.
	PutRecord(ctx context.Context, table, id string, data []byte, indexes map[string]string) error

	// InsertRecord is PutRecord failing with ErrRecordExists if id is stored.
	InsertRecord(ctx context.Context, table, id string, data []byte, indexes map[string]string) error

	// GetRecord returns ErrRecordNotFound if id is absent.
	GetRecord(ctx context.Context, table, id string) ([]byte, error)

	// ListRecords returns every record of table ordered by id.
	ListRecords(ctx context.Context, table string) ([][]byte, error)

	// FindRecords returns the records whose index equals value.
	FindRecords(ctx context.Context, table, index, value string) ([][]byte, error)

	// DeleteRecord removes id and its index entries. Idempotent.
	DeleteRecord(ctx context.Context, table, id string) error
}
