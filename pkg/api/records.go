package api

import (
	"encoding/json"
	"time"
)

// Routes of the backend.
const (
	PathHealth   = "/health"
	PathRegister = "/v1/auth/register"
	PathLogin    = "/v1/auth/login"
	PathTables   = "/v1/tables"
	PathRealtime = "/v1/realtime"
	PathMetrics  = "/metrics"
)

// MaxPageSize bounds the limit of a record listing.
const MaxPageSize = 500

// RecordListResponse is one page of a table listing.
type RecordListResponse struct {
	Records []json.RawMessage `json:"records"`
	Total   int               `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// UpdateRequest merges Patch into a record. A positive ExpectedVersion makes
// the update conditional.
type UpdateRequest struct {
	Patch           json.RawMessage `json:"patch"`
	ExpectedVersion int64           `json:"expected_version,omitempty"`
}

// Change event types.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// ChangeEvent is pushed over the realtime websocket.
type ChangeEvent struct {
	Type   string          `json:"type"`
	Table  string          `json:"table"`
	ID     string          `json:"id"`
	Record json.RawMessage `json:"record,omitempty"`
}

// HealthResponse is returned by the health probe.
type HealthResponse struct {
	Time   time.Time `json:"time"`
	Status string    `json:"status"`
}
