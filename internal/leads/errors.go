package leads

import "errors"

var (
	// ErrRecordNotFound is returned when a stored record is not found
	ErrRecordNotFound = errors.New("lead record not found")

	// ErrStoreUnavailable is returned when the external store cannot be reached
	ErrStoreUnavailable = errors.New("lead store unavailable")
)
