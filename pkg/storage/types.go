// Package storage provides the opaque key/value string store the session
// ledger is mirrored to.
//
// A store holds whole values under fixed keys; callers serialize and
// replace a value in one Set. The BoltDB store is the on-disk backend,
// the memory store serves tests and dry runs.
//
// Example usage:
//
//	store, err := storage.NewBolt(storage.Config{
//	    DBPath: "~/.config/focus-timer/sessions.db",
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	if err := store.Set("pomodoro_sessions", blob); err != nil {
//	    log.Fatal(err)
//	}
package storage

import "time"

// Store is a string-keyed blob store.
type Store interface {
	// Get returns the value stored under key.
	//
	// Returns nil and no error when the key has never been written.
	Get(key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases the underlying resources.
	Close() error
}

// Config contains BoltDB store configuration.
type Config struct {
	// DBPath is the BoltDB file path. A leading ~ is expanded.
	DBPath string

	// Bucket is the bucket holding all keys (default: "kv").
	Bucket string

	// Timeout is how long Open waits for the file lock (default: 1 second).
	// Another focus-timer process holding the database makes Open fail
	// after this timeout.
	Timeout time.Duration
}
