package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/securevision/internal/client/client"
	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/client/sink"
	"github.com/dmitrijs2005/securevision/internal/logging"
)

type Layout int

const (
	LayoutSingle Layout = iota
	LayoutGrid
)

func (l Layout) String() string {
	if l == LayoutSingle {
		return "single"
	}
	return "grid"
}

type CloseReason int

const (
	CloseButton CloseReason = iota
	CloseBackdrop
	CloseProgrammatic
)

func (r CloseReason) String() string {
	switch r {
	case CloseButton:
		return "button"
	case CloseBackdrop:
		return "backdrop"
	default:
		return "programmatic"
	}
}

// Journal persists held items until their server-side delete succeeds.
type Journal interface {
	Track(ctx context.Context, item models.GalleryItem) error
	TrackAll(ctx context.Context, items []models.GalleryItem) error
	Forget(ctx context.Context, filename string) error
	Pending(ctx context.Context) ([]models.GalleryItem, error)
}

// Gallery owns the stored results shown in a preview surface. Items are
// keyed by filename and kept in insertion order; adding a filename again
// replaces its URL in place.
//
// Closing hands the items to a background cleanup that deletes each one on
// the backend. Every item added is deleted by exactly one Close.
type Gallery struct {
	client  client.Client
	journal Journal
	sink    sink.Sink
	log     logging.Logger

	mu    sync.Mutex
	items []models.GalleryItem
	index map[string]int

	wg sync.WaitGroup
}

// NewGallery builds a gallery. journal and sink may be nil.
func NewGallery(c client.Client, j Journal, s sink.Sink, log logging.Logger) *Gallery {
	return &Gallery{
		client:  c,
		journal: j,
		sink:    s,
		log:     log.With("component", "gallery"),
		index:   make(map[string]int),
	}
}

func (g *Gallery) put(it models.GalleryItem) {
	if i, ok := g.index[it.Filename]; ok {
		g.items[i] = it
		return
	}
	g.index[it.Filename] = len(g.items)
	g.items = append(g.items, it)
}

// Open shows items, adding them to anything already held.
func (g *Gallery) Open(ctx context.Context, items []models.GalleryItem) error {
	g.mu.Lock()
	for _, it := range items {
		g.put(it)
	}
	g.mu.Unlock()

	if g.journal == nil || len(items) == 0 {
		return nil
	}
	if err := g.journal.TrackAll(ctx, items); err != nil {
		g.log.Warn(ctx, "journal batch failed", "items", len(items), "err", err)
		return fmt.Errorf("journal gallery items: %w", err)
	}
	return nil
}

func (g *Gallery) Add(ctx context.Context, it models.GalleryItem) error {
	g.mu.Lock()
	g.put(it)
	g.mu.Unlock()

	if g.journal == nil {
		return nil
	}
	if err := g.journal.Track(ctx, it); err != nil {
		g.log.Warn(ctx, "journal add failed", "file", it.Filename, "err", err)
		return fmt.Errorf("journal %s: %w", it.Filename, err)
	}
	return nil
}

// Collect adds a stored result. Journal failures are logged only.
func (g *Gallery) Collect(ctx context.Context, r models.DetectionResult) {
	_ = g.Add(ctx, r.Item())
}

func (g *Gallery) Items() []models.GalleryItem {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.GalleryItem(nil), g.items...)
}

func (g *Gallery) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.items)
}

func (g *Gallery) Layout() Layout {
	if g.Len() <= 1 {
		return LayoutSingle
	}
	return LayoutGrid
}

// Close empties the gallery and deletes the taken items on the backend in
// the background. It returns the number of items scheduled; closing an
// empty gallery schedules nothing. Cleanup outlives ctx cancellation.
func (g *Gallery) Close(ctx context.Context, reason CloseReason) int {
	g.mu.Lock()
	taken := g.items
	g.items = nil
	g.index = make(map[string]int)
	g.mu.Unlock()

	if len(taken) == 0 {
		return 0
	}

	g.log.Info(ctx, "gallery closed", "reason", reason, "items", len(taken))

	cctx := context.WithoutCancel(ctx)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.cleanup(cctx, taken)
	}()

	return len(taken)
}

func (g *Gallery) cleanup(ctx context.Context, items []models.GalleryItem) int {
	deleted := 0
	for _, it := range items {
		if err := g.client.DeleteFile(ctx, it.Filename); err != nil {
			g.log.Error(ctx, "delete on close failed", "file", it.Filename, "err", err)
			continue
		}
		deleted++
		g.log.Debug(ctx, "deleted gallery item", "file", it.Filename)

		if g.journal == nil || g.holds(it.Filename) {
			continue
		}
		if err := g.journal.Forget(ctx, it.Filename); err != nil {
			g.log.Warn(ctx, "journal forget failed", "file", it.Filename, "err", err)
		}
	}
	return deleted
}

func (g *Gallery) holds(filename string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.index[filename]
	return ok
}

// Wait blocks until every background cleanup started by Close has ended.
func (g *Gallery) Wait() {
	g.wg.Wait()
}

// Recover deletes items a previous session journaled but never cleaned up.
// Items currently held are left alone. It returns how many were deleted.
func (g *Gallery) Recover(ctx context.Context) (int, error) {
	if g.journal == nil {
		return 0, nil
	}

	pending, err := g.journal.Pending(ctx)
	if err != nil {
		return 0, fmt.Errorf("read journal: %w", err)
	}

	stale := pending[:0]
	for _, it := range pending {
		if !g.holds(it.Filename) {
			stale = append(stale, it)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	g.log.Info(ctx, "recovering orphaned gallery items", "items", len(stale))
	return g.cleanup(ctx, stale), nil
}

func (g *Gallery) lookup(filename string) (models.GalleryItem, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i, ok := g.index[filename]
	if !ok {
		return models.GalleryItem{}, false
	}
	return g.items[i], true
}

// Download saves one held item through the sink. The item stays held.
func (g *Gallery) Download(ctx context.Context, filename string) (string, error) {
	it, ok := g.lookup(filename)
	if !ok {
		return "", fmt.Errorf("%s: %w", filename, ErrNotInGallery)
	}
	return download(ctx, g.client, g.sink, it.Filename, it.URL)
}

// DownloadAll saves every held item, continuing past failures.
func (g *Gallery) DownloadAll(ctx context.Context) ([]string, error) {
	var (
		saved []string
		errs  []error
	)
	for _, it := range g.Items() {
		loc, err := download(ctx, g.client, g.sink, it.Filename, it.URL)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		saved = append(saved, loc)
	}
	return saved, errors.Join(errs...)
}

func download(ctx context.Context, c client.Client, s sink.Sink, name, url string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("download %s: no download target configured", name)
	}
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", name, err)
	}
	defer body.Close()

	loc, err := s.Save(ctx, name, body)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return loc, nil
}
