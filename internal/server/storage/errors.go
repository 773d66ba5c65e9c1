package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrRecordNotFound indicates that no record has this table and id
	ErrRecordNotFound = errors.New("record not found")

	ErrRecordExists = errors.New("record already exists")

	// ErrVersionMismatch is returned by a conditional update when the stored
	// version moved on.
	ErrVersionMismatch = errors.New("record version mismatch")
)
