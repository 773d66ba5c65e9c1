package sync

import (
	"context"
	"encoding/json"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

// LocalTable is the slice of the local store the sync engine writes through.
// Implemented by [store.Store].
type LocalTable interface {
	Table() string
	ApplyRemote(ctx context.Context, raw json.RawMessage) error
	RemoveRemote(ctx context.Context, id string) error
	IDs(ctx context.Context) ([]string, error)
}

// OperationQueue is the subset of the operation queue used by sync.
// Implemented by [queue.Queue].
type OperationQueue interface {
	Batch(ctx context.Context) ([]*models.QueueEntry, error)
	MarkProcessed(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, reason string, conflict bool) error
	Stats(ctx context.Context) (models.QueueStats, error)
	PendingIDs(ctx context.Context, table string) (map[string]bool, error)
}

// Connectivity reports whether the backend is reachable.
// Implemented by [network.Monitor].
type Connectivity interface {
	Online() bool
	// Subscribe delivers every online/offline transition until cancel is
	// called.
	Subscribe() (changes <-chan bool, cancel func())
}
