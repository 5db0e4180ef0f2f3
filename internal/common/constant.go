// Package common contains constants and sentinel errors shared by the
// client packages.
package common

const (
	// MaxUploadSize is the largest file the client will submit (10 MiB).
	MaxUploadSize int64 = 10 * 1024 * 1024

	// CSRFCookieName is the cookie the backend stores its forgery-protection
	// token in.
	CSRFCookieName = "csrftoken"

	// CSRFHeaderName carries the forgery-protection token on state-changing
	// requests.
	CSRFHeaderName = "X-CSRFToken"

	// UploadField is the repeatable multipart field holding file bytes.
	UploadField = "images"
)
