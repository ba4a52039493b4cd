package scheduling

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat     = errors.New("invalid format")
	ErrInvalidIdentifier = errors.New("invalid user id")
	ErrUserNotFound      = errors.New("user not found")
	ErrStorage           = errors.New("storage failure")

	// ErrNotFound is returned by Store implementations when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
)

// IsClientError reports whether err was caused by the caller's input rather than the backend.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrUserNotFound)
}

func storageError(err error) error {
	if err == nil || IsClientError(err) || errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
