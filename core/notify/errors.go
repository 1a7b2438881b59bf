package notify

import "errors"

var (
	// ErrServiceNil is returned when no count service is provided.
	ErrServiceNil = errors.New("notify: count service is required")
	// ErrStoreNil is returned when no session store is provided.
	ErrStoreNil = errors.New("notify: session store is required")
	// ErrInvalidInterval is returned for a non-positive poll interval.
	ErrInvalidInterval = errors.New("notify: poll interval must be positive")
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("notify: poller already started")
	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("notify: poller not started")
)
