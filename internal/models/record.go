package models

import "time"

// Table names of the synchronized entities.
const (
	TableAddresses = "addresses"
	TableOrders    = "orders"
)

// Record is implemented by every entity mirrored in the local store.
// Implementations are pointer types (*Address, *Order).
type Record interface {
	// RecordID returns the immutable client-generated id.
	RecordID() string
	// RecordVersion returns the server-assigned version, 0 if never synced.
	RecordVersion() int64
	Active() bool
	SetActive(active bool, at time.Time)
	// Stamp sets created_at and updated_at for a freshly created record.
	Stamp(at time.Time)
	// Touch sets updated_at.
	Touch(at time.Time)
}

// Tables lists every synchronized table in a stable order.
func Tables() []string {
	return []string{TableAddresses, TableOrders}
}

// IsKnownTable reports whether name is a synchronized table.
func IsKnownTable(name string) bool {
	for _, t := range Tables() {
		if t == name {
			return true
		}
	}
	return false
}
