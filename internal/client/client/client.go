package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/securevision/internal/client/models"
)

type Client interface {
	Upload(ctx context.Context, req models.UploadRequest) ([]models.DetectionResult, error)
	DeleteFile(ctx context.Context, filename string) error
	ListImages(ctx context.Context) ([]models.StoredImage, error)
	DeleteImage(ctx context.Context, name string) error
	DeleteAllImages(ctx context.Context) error
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
	OpenStream(ctx context.Context) (Stream, error)
	DisconnectStream(ctx context.Context) (models.DisconnectStatus, error)
}

// Frame is one inbound livestream message. Encoded is true for text
// messages, whose payload is base64 image bytes.
type Frame struct {
	Payload []byte
	Encoded bool
}

// Stream is an open livestream connection. ReadFrame blocks until the next
// message arrives and returns ErrStreamClosed once the peer or Close has
// ended the connection. Close is safe to call more than once.
type Stream interface {
	ReadFrame() (Frame, error)
	Close() error
}
