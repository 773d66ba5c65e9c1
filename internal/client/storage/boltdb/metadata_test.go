package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
)

func TestSaveAndGetTimestamp(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Изначально нулевое время
	ts, err := store.GetTimestamp(ctx, storage.KeyLastPush)
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	expected := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
	require.NoError(t, store.SaveTimestamp(ctx, storage.KeyLastPush, expected))

	got, err := store.GetTimestamp(ctx, storage.KeyLastPush)
	require.NoError(t, err)
	assert.True(t, expected.Equal(got))

	// Другие ключи независимы
	other, err := store.GetTimestamp(ctx, storage.LastPullKey("orders"))
	require.NoError(t, err)
	assert.True(t, other.IsZero())
}

func TestGetTimestamp_Corrupted(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put([]byte(storage.KeyLastPull), []byte("bad"))
	})
	require.NoError(t, err)

	_, err = store.GetTimestamp(ctx, storage.KeyLastPull)
	assert.Error(t, err)
}

func TestGetTimestamp_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketMetadata)
	})
	require.NoError(t, err)

	_, err = store.GetTimestamp(ctx, storage.KeyLastPull)
	assert.Error(t, err)
	assert.Error(t, store.SaveTimestamp(ctx, storage.KeyLastPull, time.Now()))
}
