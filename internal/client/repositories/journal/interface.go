package journal

import (
	"context"

	"github.com/dmitrijs2005/securevision/internal/client/models"
)

type Repository interface {
	// Track records item, replacing the URL of an existing row with the
	// same filename.
	Track(ctx context.Context, item models.GalleryItem) error

	// Forget removes the row for filename. Missing rows are not an error.
	Forget(ctx context.Context, filename string) error

	// Pending lists tracked items in the order they were first recorded.
	Pending(ctx context.Context) ([]models.GalleryItem, error)
}
