package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// SaveTimestamp stores ts under key as big-endian unix nanoseconds.
func (s *Storage) SaveTimestamp(ctx context.Context, key string, ts time.Time) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(ts.UnixNano()))

		if err := bucket.Put([]byte(key), buf); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		return nil
	})
}

// GetTimestamp returns the time stored under key, or the zero time if the
// key was never saved.
func (s *Storage) GetTimestamp(ctx context.Context, key string) (time.Time, error) {
	var ts time.Time

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		raw := bucket.Get([]byte(key))
		if raw == nil {
			// Синхронизации еще не было
			return nil
		}
		if len(raw) != 8 {
			return fmt.Errorf("corrupted %s value (%d bytes)", key, len(raw))
		}

		ts = time.Unix(0, int64(binary.BigEndian.Uint64(raw))).UTC()
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return ts, nil
}
