package boltdb

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

// Очередь: queue хранит seq -> JSON (порядок ключей = порядок вставки),
// queue_ids хранит id -> seq.

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// AppendEntry assigns the next sequence number to entry and stores it.
func (s *Storage) AppendEntry(ctx context.Context, entry *models.QueueEntry) error {
	return s.update(func(tx *bbolt.Tx) error {
		queue := tx.Bucket(bucketQueue)
		ids := tx.Bucket(bucketQueueIDs)
		if queue == nil || ids == nil {
			return fmt.Errorf("queue bucket not found")
		}
		if ids.Get([]byte(entry.ID)) != nil {
			return fmt.Errorf("queue entry %s already exists", entry.ID)
		}

		seq, err := queue.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence: %w", err)
		}
		entry.Seq = seq

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal queue entry: %w", err)
		}
		if err := queue.Put(seqKey(seq), data); err != nil {
			return fmt.Errorf("failed to save queue entry: %w", err)
		}
		return ids.Put([]byte(entry.ID), seqKey(seq))
	})
}

// GetEntry returns the entry with the given id.
func (s *Storage) GetEntry(ctx context.Context, id string) (*models.QueueEntry, error) {
	var entry *models.QueueEntry

	err := s.view(func(tx *bbolt.Tx) error {
		key := tx.Bucket(bucketQueueIDs).Get([]byte(id))
		if key == nil {
			return storage.ErrEntryNotFound
		}
		data := tx.Bucket(bucketQueue).Get(key)
		if data == nil {
			return storage.ErrEntryNotFound
		}

		entry = &models.QueueEntry{}
		if err := json.Unmarshal(data, entry); err != nil {
			return fmt.Errorf("failed to unmarshal queue entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateEntry replaces the stored entry, keeping its sequence number.
func (s *Storage) UpdateEntry(ctx context.Context, entry *models.QueueEntry) error {
	return s.update(func(tx *bbolt.Tx) error {
		key := tx.Bucket(bucketQueueIDs).Get([]byte(entry.ID))
		if key == nil {
			return storage.ErrEntryNotFound
		}
		key = bytes.Clone(key)
		entry.Seq = binary.BigEndian.Uint64(key)

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal queue entry: %w", err)
		}
		if err := tx.Bucket(bucketQueue).Put(key, data); err != nil {
			return fmt.Errorf("failed to update queue entry: %w", err)
		}
		return nil
	})
}

// ListEntries returns every entry in insertion order.
func (s *Storage) ListEntries(ctx context.Context) ([]*models.QueueEntry, error) {
	var entries []*models.QueueEntry

	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).ForEach(func(_, v []byte) error {
			entry := &models.QueueEntry{}
			if err := json.Unmarshal(v, entry); err != nil {
				return fmt.Errorf("failed to unmarshal queue entry: %w", err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list queue entries: %w", err)
	}
	return entries, nil
}

// DeleteEntry removes the entry with the given id. Missing ids are ignored.
func (s *Storage) DeleteEntry(ctx context.Context, id string) error {
	return s.update(func(tx *bbolt.Tx) error {
		ids := tx.Bucket(bucketQueueIDs)
		key := ids.Get([]byte(id))
		if key == nil {
			return nil
		}
		key = bytes.Clone(key)
		if err := tx.Bucket(bucketQueue).Delete(key); err != nil {
			return fmt.Errorf("failed to delete queue entry: %w", err)
		}
		return ids.Delete([]byte(id))
	})
}
