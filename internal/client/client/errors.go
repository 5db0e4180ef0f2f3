package client

import "errors"

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrBadStatus         = errors.New("unexpected response status")
	ErrMalformedResponse = errors.New("malformed response")
	ErrStreamClosed      = errors.New("stream closed")
	ErrInvalidBaseURL    = errors.New("invalid base url")
)
