package storage

import "errors"

var (
	// ErrNotFound is returned when a named entry does not exist under a
	// root and creation was not requested.
	ErrNotFound = errors.New("storage: not found")

	// ErrPermissionDenied is returned when the user declines read or
	// write access to a root. Fatal to the requesting operation only.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrNoStorageContext is returned when an operation that needs a root
	// handle runs before one is established.
	ErrNoStorageContext = errors.New("storage: no root configured")
)
