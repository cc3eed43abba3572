package database

import (
	"errors"

	"github.com/lib/pq"
)

// ErrStatusConflict is returned by AdvanceIssue when the issue's status
// no longer matches the expected current status, i.e. a concurrent
// transition won the race.
var ErrStatusConflict = errors.New("issue status changed concurrently")

// IsRetryable reports whether err is a transient transactional failure
// (serialization failure, deadlock, or a unique-index race on the
// active-vote constraint) that the caller should retry.
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01", "23505":
			return true
		}
	}

	return false
}
