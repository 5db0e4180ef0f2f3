package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/securevision/internal/client/client"
	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/client/notify"
	"github.com/dmitrijs2005/securevision/internal/client/sink"
	"github.com/dmitrijs2005/securevision/internal/logging"
)

// ImageService mirrors the backend's stored-images list, newest first.
// Unlike the gallery, nothing here is deleted implicitly.
type ImageService struct {
	client   client.Client
	notifier notify.Service
	sink     sink.Sink
	log      logging.Logger

	mu     sync.Mutex
	images []models.StoredImage
}

func NewImageService(c client.Client, n notify.Service, s sink.Sink, log logging.Logger) *ImageService {
	return &ImageService{client: c, notifier: n, sink: s, log: log.With("component", "images")}
}

func (s *ImageService) Refresh(ctx context.Context) ([]models.StoredImage, error) {
	imgs, err := s.client.ListImages(ctx)
	if err != nil {
		s.log.Warn(ctx, "list images failed", "err", err)
		s.notifier.Error("Could not load images", err.Error())
		return nil, err
	}

	s.mu.Lock()
	s.images = append([]models.StoredImage(nil), imgs...)
	s.mu.Unlock()
	return imgs, nil
}

func (s *ImageService) Items() []models.StoredImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.StoredImage(nil), s.images...)
}

// Collect puts a freshly stored result at the top of the list.
func (s *ImageService) Collect(_ context.Context, r models.DetectionResult) {
	img := models.StoredImage{Name: r.Filename, URL: r.URL}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := []models.StoredImage{img}
	for _, it := range s.images {
		if it.Name != img.Name {
			kept = append(kept, it)
		}
	}
	s.images = kept
}

func (s *ImageService) Delete(ctx context.Context, name string) error {
	if err := s.client.DeleteImage(ctx, name); err != nil {
		s.log.Warn(ctx, "delete image failed", "file", name, "err", err)
		s.notifier.Error("Delete failed", fmt.Sprintf("%s: %v", name, err))
		return err
	}

	s.mu.Lock()
	kept := s.images[:0]
	for _, it := range s.images {
		if it.Name != name {
			kept = append(kept, it)
		}
	}
	s.images = kept
	s.mu.Unlock()

	s.notifier.Success(fmt.Sprintf("%s deleted", name), "")
	return nil
}

func (s *ImageService) Clear(ctx context.Context) error {
	if err := s.client.DeleteAllImages(ctx); err != nil {
		s.log.Warn(ctx, "delete all images failed", "err", err)
		s.notifier.Error("Delete failed", err.Error())
		return err
	}

	s.mu.Lock()
	s.images = nil
	s.mu.Unlock()

	s.notifier.Success("All files deleted", "")
	return nil
}

func (s *ImageService) Download(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	var url string
	for _, it := range s.images {
		if it.Name == name {
			url = it.URL
			break
		}
	}
	s.mu.Unlock()

	if url == "" {
		return "", fmt.Errorf("%s: %w", name, ErrUnknownImage)
	}
	return download(ctx, s.client, s.sink, name, url)
}
