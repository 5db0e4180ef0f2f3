package common

import "errors"

var (
	// Client-side validation errors. No network call is made.
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnsupportedMedia = errors.New("unsupported media type")

	// ErrOriginalUnavailable marks a flagged file whose original bytes can no
	// longer be read. It is a defect, not a user decision.
	ErrOriginalUnavailable = errors.New("original file unavailable")

	// ErrNotStored is reported when the backend accepted a file but did not
	// keep it.
	ErrNotStored = errors.New("file not stored")

	// ErrInvalidTransition is returned by the state machines for events that
	// are not valid in the current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrAlreadyClosed is returned when disconnecting a livestream that is
	// not open.
	ErrAlreadyClosed = errors.New("livestream already closed")
)
