package storage

import (
	"context"
	"time"
)

//go:generate moq -out metadata_mock.go . MetadataStorage

// Metadata keys used by the sync engine.
const (
	KeyLastPull = "last_pull"
	KeyLastPush = "last_push"
)

// LastPullKey returns the per-table pull checkpoint key.
func LastPullKey(table string) string {
	return KeyLastPull + ":" + table
}

// MetadataStorage persists sync checkpoints.
type MetadataStorage interface {
	SaveTimestamp(ctx context.Context, key string, ts time.Time) error

	// GetTimestamp returns the zero time if key was never saved.
	GetTimestamp(ctx context.Context, key string) (time.Time, error)
}
