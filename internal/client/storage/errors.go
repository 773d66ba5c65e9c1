package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no session is stored
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrRecordNotFound indicates that a record is absent from its table
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordExists indicates an insert of an id that is already stored
	ErrRecordExists = errors.New("record already exists")

	// ErrEntryNotFound indicates that a queue entry was not found
	ErrEntryNotFound = errors.New("queue entry not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
