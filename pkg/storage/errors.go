package storage

import "errors"

// Common errors returned by stores.
var (
	// ErrStoreClosed is returned when a closed store is used.
	ErrStoreClosed = errors.New("store is closed")

	// ErrEmptyKey is returned when a key is empty.
	ErrEmptyKey = errors.New("key cannot be empty")
)
