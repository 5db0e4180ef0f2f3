package models

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Opener yields a fresh reader over a file's raw bytes. Each call must start
// from the beginning.
type Opener func() (io.ReadCloser, error)

// FileSubmission is one user-selected file. It is immutable once created and
// refers to the bytes through Handle rather than holding them.
type FileSubmission struct {
	// Name is the file name sent to the backend and shown in notifications.
	Name string

	// SizeBytes is checked against the upload limit before any network call.
	SizeBytes int64

	// Handle opens the raw bytes. Nil means the original is unavailable.
	Handle Opener
}

// NewFileSubmission stats path and returns a submission that reopens the
// file each time its bytes are needed.
func NewFileSubmission(path string) (FileSubmission, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileSubmission{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return FileSubmission{}, fmt.Errorf("%s is a directory", path)
	}
	return FileSubmission{
		Name:      filepath.Base(path),
		SizeBytes: fi.Size(),
		Handle: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// NewMemorySubmission wraps an in-memory buffer.
func NewMemorySubmission(name string, data []byte) FileSubmission {
	return FileSubmission{
		Name:      name,
		SizeBytes: int64(len(data)),
		Handle: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// UploadMode selects the directive flag attached to an upload.
type UploadMode int

const (
	// ModeNormal lets the backend gate the file on sensitivity.
	ModeNormal UploadMode = iota
	// ModeBlur asks the backend to blur detected regions and store the result.
	ModeBlur
	// ModeForce stores the file as-is, bypassing the sensitivity gate.
	ModeForce
)

func (m UploadMode) String() string {
	switch m {
	case ModeBlur:
		return "blur"
	case ModeForce:
		return "force"
	default:
		return "normal"
	}
}

// UploadRequest is a single-file upload handed to the backend client.
type UploadRequest struct {
	Filename    string
	ContentType string
	Data        []byte
	Mode        UploadMode
}
