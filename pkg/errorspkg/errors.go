// Package errorspkg provides common app errors.
package errorspkg

import (
	"context"
	"database/sql/driver"
	"errors"
)

var (
	// ErrInternal indicates internal server error.
	ErrInternal = errors.New("internal")
	// ErrUnavailable indicates a storage failure that left no partial state
	// behind and is safe to retry.
	ErrUnavailable = errors.New("storage unavailable")
)

// Storage maps an unexpected storage error to ErrUnavailable when it is a
// retryable infrastructure failure, ErrInternal otherwise.
func Storage(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return ErrUnavailable
	}

	return ErrInternal
}
