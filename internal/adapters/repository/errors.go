package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	// ErrDataUnavailable wraps every load failure: missing source, unknown
	// format, malformed record or a dataset that fails validation.
	ErrDataUnavailable = errors.New("dataset unavailable")
	// ErrNotLoaded is returned by accessors called before a successful Load.
	ErrNotLoaded = errors.New("dataset not loaded")

	ErrUnknownFormat   = errors.New("unknown dataset format")
	ErrMalformedRecord = errors.New("malformed record")
)
