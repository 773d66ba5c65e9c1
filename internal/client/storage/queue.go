package storage

import (
	"context"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

//go:generate moq -out queue_mock.go . QueueStorage

// QueueStorage persists operation queue entries in insertion order.
type QueueStorage interface {
	// AppendEntry assigns entry.Seq and stores it.
	AppendEntry(ctx context.Context, entry *models.QueueEntry) error

	// GetEntry returns ErrEntryNotFound if id is absent.
	GetEntry(ctx context.Context, id string) (*models.QueueEntry, error)

	// UpdateEntry replaces a stored entry. ErrEntryNotFound if absent.
	UpdateEntry(ctx context.Context, entry *models.QueueEntry) error

	// ListEntries returns all entries ordered by Seq.
	ListEntries(ctx context.Context) ([]*models.QueueEntry, error)

	// DeleteEntry removes id. Idempotent.
	DeleteEntry(ctx context.Context, id string) error
}
