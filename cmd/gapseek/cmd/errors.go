package cmd

import (
	"errors"
	"strings"

	bolt "go.etcd.io/bbolt"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt gives up with "timeout" when another process holds the file lock
// past the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, bolt.ErrTimeout) || strings.Contains(err.Error(), "timeout")
}
