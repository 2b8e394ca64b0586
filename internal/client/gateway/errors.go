package gateway

import "errors"

var (
	// ErrUnavailable means the backend could not be reached at the
	// transport level (and no offline fallback applied).
	ErrUnavailable = errors.New("server unavailable")

	// ErrOfflineUnsupported means the device is offline and the requested
	// action has no offline fallback.
	ErrOfflineUnsupported = errors.New("action not available offline")
)
