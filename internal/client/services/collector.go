package services

import (
	"context"

	"github.com/dmitrijs2005/securevision/internal/client/models"
)

// Collector receives results the backend stored, either for a preview
// gallery or for the stored-images list.
type Collector interface {
	Collect(ctx context.Context, r models.DetectionResult)
}

// Original is a borrowed reference to a submission's bytes and the digest
// taken when they were first read.
type Original struct {
	Submission  models.FileSubmission
	ContentType string
	Digest      []byte
}
