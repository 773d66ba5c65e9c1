package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
)

// Устройство обслуживает одного оператора за раз: сессия лежит под одним ключом.
var sessionKey = []byte("session")

// errEmptyToken rejects sessions the pusher could never authenticate with.
var errEmptyToken = errors.New("session has no access token")

func readSession(tx *bbolt.Tx) (*storage.AuthData, error) {
	bucket := tx.Bucket(bucketAuth)
	if bucket == nil {
		return nil, fmt.Errorf("auth bucket not found")
	}
	raw := bucket.Get(sessionKey)
	if raw == nil {
		return nil, storage.ErrAuthNotFound
	}

	session := &storage.AuthData{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("corrupted session: %w", err)
	}
	return session, nil
}

// SaveAuth replaces the operator session. Expiry is stored in UTC.
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if auth.AccessToken == "" {
		return errEmptyToken
	}
	session := *auth
	session.ExpiresAt = session.ExpiresAt.UTC()

	raw, err := json.Marshal(&session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}
		if err := bucket.Put(sessionKey, raw); err != nil {
			return fmt.Errorf("failed to save session of %s: %w", session.Username, err)
		}
		return nil
	})
}

// GetAuth returns the stored session, expired or not.
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	var session *storage.AuthData
	err := s.view(func(tx *bbolt.Tx) (err error) {
		session, err = readSession(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteAuth ends the shift. Queued writes stay in place for the next operator.
func (s *Storage) DeleteAuth(ctx context.Context) error {
	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}
		if err := bucket.Delete(sessionKey); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
}

// IsAuthenticated reports whether the stored session is still valid at s.now.
func (s *Storage) IsAuthenticated(ctx context.Context) (bool, error) {
	var valid bool
	err := s.view(func(tx *bbolt.Tx) error {
		session, err := readSession(tx)
		switch {
		case errors.Is(err, storage.ErrAuthNotFound):
			return nil
		case err != nil:
			return err
		}
		valid = !session.Expired(s.now())
		return nil
	})
	return valid, err
}
