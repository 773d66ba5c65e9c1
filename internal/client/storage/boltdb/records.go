package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
)

// Каждая таблица хранится во вложенном bucket records/<table>:
//
//	data     id -> JSON
//	indexes  id -> JSON map index -> value (для удаления устаревших ключей)
//	idx:<n>  value\x00id -> пусто
var (
	subData    = []byte("data")
	subIndexes = []byte("indexes")
	idxPrefix  = "idx:"
)

func indexKey(value, id string) []byte {
	key := make([]byte, 0, len(value)+1+len(id))
	key = append(key, value...)
	key = append(key, 0)
	return append(key, id...)
}

// tableBucket returns records/<table>, creating it when create is set.
// A nil bucket with a nil error means the table was never written.
func tableBucket(tx *bbolt.Tx, table string, create bool) (*bbolt.Bucket, error) {
	root := tx.Bucket(bucketRecords)
	if root == nil {
		return nil, fmt.Errorf("records bucket not found")
	}
	if !create {
		return root.Bucket([]byte(table)), nil
	}

	tb, err := root.CreateBucketIfNotExists([]byte(table))
	if err != nil {
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}
	for _, name := range [][]byte{subData, subIndexes} {
		if _, err := tb.CreateBucketIfNotExists(name); err != nil {
			return nil, fmt.Errorf("failed to create %s/%s: %w", table, name, err)
		}
	}
	return tb, nil
}

// PutRecord inserts or replaces a record and its index entries.
func (s *Storage) PutRecord(ctx context.Context, table, id string, data []byte, indexes map[string]string) error {
	return s.update(func(tx *bbolt.Tx) error {
		tb, err := tableBucket(tx, table, true)
		if err != nil {
			return err
		}
		return putRecord(tb, id, data, indexes)
	})
}

// InsertRecord stores a new record, failing with ErrRecordExists if id is
// already present. The check and the write happen in one transaction.
func (s *Storage) InsertRecord(ctx context.Context, table, id string, data []byte, indexes map[string]string) error {
	return s.update(func(tx *bbolt.Tx) error {
		tb, err := tableBucket(tx, table, true)
		if err != nil {
			return err
		}
		if tb.Bucket(subData).Get([]byte(id)) != nil {
			return storage.ErrRecordExists
		}
		return putRecord(tb, id, data, indexes)
	})
}

func putRecord(tb *bbolt.Bucket, id string, data []byte, indexes map[string]string) error {
	if err := removeIndexes(tb, id); err != nil {
		return err
	}

	if err := tb.Bucket(subData).Put([]byte(id), data); err != nil {
		return fmt.Errorf("failed to save record %s: %w", id, err)
	}

	if len(indexes) == 0 {
		return nil
	}
	for name, value := range indexes {
		ib, err := tb.CreateBucketIfNotExists([]byte(idxPrefix + name))
		if err != nil {
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}
		if err := ib.Put(indexKey(value, id), []byte{}); err != nil {
			return fmt.Errorf("failed to write index %s: %w", name, err)
		}
	}

	raw, err := json.Marshal(indexes)
	if err != nil {
		return fmt.Errorf("failed to marshal index values: %w", err)
	}
	return tb.Bucket(subIndexes).Put([]byte(id), raw)
}

// removeIndexes drops the index entries written for id by the previous put.
func removeIndexes(tb *bbolt.Bucket, id string) error {
	keys := tb.Bucket(subIndexes)
	raw := keys.Get([]byte(id))
	if raw == nil {
		return nil
	}

	var old map[string]string
	if err := json.Unmarshal(raw, &old); err != nil {
		return fmt.Errorf("failed to unmarshal index values of %s: %w", id, err)
	}
	for name, value := range old {
		if ib := tb.Bucket([]byte(idxPrefix + name)); ib != nil {
			if err := ib.Delete(indexKey(value, id)); err != nil {
				return fmt.Errorf("failed to delete index %s: %w", name, err)
			}
		}
	}
	return keys.Delete([]byte(id))
}

// GetRecord returns a copy of the stored JSON.
func (s *Storage) GetRecord(ctx context.Context, table, id string) ([]byte, error) {
	var out []byte

	err := s.view(func(tx *bbolt.Tx) error {
		tb, err := tableBucket(tx, table, false)
		if err != nil {
			return err
		}
		if tb == nil {
			return storage.ErrRecordNotFound
		}
		data := tb.Bucket(subData).Get([]byte(id))
		if data == nil {
			return storage.ErrRecordNotFound
		}
		// Значение валидно только внутри транзакции
		out = bytes.Clone(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecords returns every record of table in id order.
func (s *Storage) ListRecords(ctx context.Context, table string) ([][]byte, error) {
	var out [][]byte

	err := s.view(func(tx *bbolt.Tx) error {
		tb, err := tableBucket(tx, table, false)
		if err != nil || tb == nil {
			return err
		}
		return tb.Bucket(subData).ForEach(func(_, v []byte) error {
			out = append(out, bytes.Clone(v))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return out, nil
}

// FindRecords returns the records whose index equals value.
func (s *Storage) FindRecords(ctx context.Context, table, index, value string) ([][]byte, error) {
	var out [][]byte

	err := s.view(func(tx *bbolt.Tx) error {
		tb, err := tableBucket(tx, table, false)
		if err != nil || tb == nil {
			return err
		}
		ib := tb.Bucket([]byte(idxPrefix + index))
		if ib == nil {
			return nil
		}

		data := tb.Bucket(subData)
		prefix := indexKey(value, "")
		c := ib.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			id := k[len(prefix):]
			if v := data.Get(id); v != nil {
				out = append(out, bytes.Clone(v))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s by %s: %w", table, index, err)
	}
	return out, nil
}

// DeleteRecord removes id and its index entries. Missing ids are ignored.
func (s *Storage) DeleteRecord(ctx context.Context, table, id string) error {
	return s.update(func(tx *bbolt.Tx) error {
		tb, err := tableBucket(tx, table, false)
		if err != nil || tb == nil {
			return err
		}
		if err := removeIndexes(tb, id); err != nil {
			return err
		}
		if err := tb.Bucket(subData).Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete record %s: %w", id, err)
		}
		return nil
	})
}
