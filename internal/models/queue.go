package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// OperationType is the kind of mutation a queue entry carries.
type OperationType string

const (
	OpCreate     OperationType = "CREATE"
	OpUpdate     OperationType = "UPDATE"
	OpDeactivate OperationType = "DEACTIVATE"
	OpActivate   OperationType = "ACTIVATE"
	OpDelete     OperationType = "DELETE"
)

var validOperationTypes = []OperationType{OpCreate, OpUpdate, OpDeactivate, OpActivate, OpDelete}

// IsValid reports whether the value is one of the fixed operation types.
func (o OperationType) IsValid() bool {
	for _, candidate := range validOperationTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

func (o OperationType) String() string { return string(o) }

// ParseOperationType converts raw input into OperationType.
func ParseOperationType(value string) (OperationType, error) {
	for _, candidate := range validOperationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid operation type %q", value)
}

// QueueStatus is the delivery state of a queue entry.
type QueueStatus string

const (
	QueuePending   QueueStatus = "pending"
	QueueProcessed QueueStatus = "processed"
	QueueFailed    QueueStatus = "failed"
)

// IsValid reports whether the value is a known queue status.
func (s QueueStatus) IsValid() bool {
	return s == QueuePending || s == QueueProcessed || s == QueueFailed
}

// QueueEntry is a local mutation not yet confirmed by the remote backend.
type QueueEntry struct {
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	ID              string          `json:"id"`
	Table           string          `json:"table"`
	OperationType   OperationType   `json:"operation_type"`
	EntityID        string          `json:"entity_id"`
	Status          QueueStatus     `json:"status"`
	LastError       string          `json:"last_error,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
	Seq             uint64          `json:"seq"`
	ExpectedVersion int64           `json:"expected_version,omitempty"`
	Attempts        int             `json:"attempts"`
	Conflict        bool            `json:"conflict,omitempty"`
}

// Before reports whether e must be applied before other: ascending
// created_at, then insertion sequence.
func (e *QueueEntry) Before(other *QueueEntry) bool {
	if !e.CreatedAt.Equal(other.CreatedAt) {
		return e.CreatedAt.Before(other.CreatedAt)
	}
	return e.Seq < other.Seq
}

// QueueStats counts entries per status.
type QueueStats struct {
	Pending   int `json:"pending"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Conflicts int `json:"conflicts"`
}
