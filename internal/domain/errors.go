// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a referenced entity does not exist. Storage
// implementations wrap it with entity context via NotFoundf.
var ErrNotFound = errors.New("not found")

// ErrStorageUnavailable signals a storage-layer failure that is not a
// missing row. It propagates unchanged through the estimators.
var ErrStorageUnavailable = errors.New("storage unavailable")

// NotFoundf wraps ErrNotFound with a formatted description.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
