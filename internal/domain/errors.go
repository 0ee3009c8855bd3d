package domain

import "errors"

var (
	// ErrDataUnavailable is returned when a dataset cannot be fetched or decoded.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInvalidInput marks user input the core refuses to act on.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCacheInstall wraps whatever made an asset cache install abort.
	ErrCacheInstall = errors.New("cache install failed")
	// ErrInstallInProgress is returned when an install is already running.
	ErrInstallInProgress = errors.New("cache install already in progress")
	// ErrSuperseded marks a result whose request was overtaken by a newer
	// request for the same result panel.
	ErrSuperseded = errors.New("superseded by a newer request")
	ErrNotFound   = errors.New("not found")
)
