package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/securevision/internal/client/client"
	"github.com/dmitrijs2005/securevision/internal/client/config"
	"github.com/dmitrijs2005/securevision/internal/client/notify"
	"github.com/dmitrijs2005/securevision/internal/client/repositories/journal"
	"github.com/dmitrijs2005/securevision/internal/client/services"
	"github.com/dmitrijs2005/securevision/internal/client/sink"
	"github.com/dmitrijs2005/securevision/internal/client/surface"
	"github.com/dmitrijs2005/securevision/internal/logging"
)

// primer is implemented by clients that need a warm-up request, such as the
// HTTP client fetching its CSRF cookie.
type primer interface {
	Prime(ctx context.Context) error
}

type App struct {
	client   client.Client
	notifier notify.Service
	log      logging.Logger

	uploads services.UploadService
	gallery *services.Gallery
	images  *services.ImageService
	stream  *services.LivestreamService
	surface surface.Surface

	selection       Selection
	reader          *bufio.Reader
	interactive     bool
	shutdownTimeout time.Duration
	closers         []io.Closer
}

// deps are the collaborators an App is assembled from.
type deps struct {
	client   client.Client
	notifier notify.Service
	journal  services.Journal
	sink     sink.Sink
	surface  surface.Surface
	log      logging.Logger
	reader   *bufio.Reader
}

func newApp(d deps, shutdownTimeout time.Duration) *App {
	reviewer := services.NewReviewService(d.client, d.notifier, d.log)
	gallery := services.NewGallery(d.client, d.journal, d.sink, d.log)
	images := services.NewImageService(d.client, d.notifier, d.sink, d.log)

	return &App{
		client:          d.client,
		notifier:        d.notifier,
		log:             d.log,
		uploads:         services.NewUploadService(d.client, reviewer, d.notifier, gallery, d.log),
		gallery:         gallery,
		images:          images,
		stream:          services.NewLivestreamService(d.client, d.notifier, d.surface, d.log),
		surface:         d.surface,
		reader:          d.reader,
		shutdownTimeout: shutdownTimeout,
	}
}

// NewApp wires the backend client, journal, sink and services from c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.JournalDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "dsn", c.JournalDSN, "err", err)
		return nil, err
	}

	var opts []client.Option
	if c.StreamURL != "" {
		opts = append(opts, client.WithStreamURL(c.StreamURL))
	}
	apiClient, err := client.NewHTTPClient(c.BaseURL, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	dl, err := newSink(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("download sink: %w", err)
	}

	surf, err := surface.NewFileSurface(c.SurfaceDir)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("livestream surface: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	app := newApp(deps{
		client:   apiClient,
		notifier: notify.NewTerminal(reader, os.Stdout),
		journal:  journal.NewStore(db),
		sink:     dl,
		surface:  surf,
		log:      log,
		reader:   reader,
	}, c.ShutdownTimeout)
	app.interactive = isTerminal(int(os.Stdin.Fd()))
	app.closers = append(app.closers, db)

	log.Debug(ctx, "client configured", "base_url", c.BaseURL, "stream_url", apiClient.StreamURL(), "journal", c.JournalDSN)
	return app, nil
}

func newSink(ctx context.Context, c *config.Config) (sink.Sink, error) {
	if c.S3.Bucket == "" {
		return sink.NewLocalSink(c.DownloadDir)
	}
	return sink.NewS3Sink(ctx, sink.S3Options{
		Bucket:          c.S3.Bucket,
		Region:          c.S3.Region,
		Endpoint:        c.S3.Endpoint,
		AccessKeyID:     c.S3.AccessKeyID,
		SecretAccessKey: c.S3.SecretAccessKey,
		Prefix:          c.S3.Prefix,
	})
}

// Run starts the REPL and blocks until the user exits or ctx ends. On the
// way out the gallery is closed and any livestream is torn down.
func (a *App) Run(ctx context.Context) {
	defer a.shutdown(ctx)

	a.start(ctx)

	var status func() string
	if a.interactive {
		printlnFn("SecureVision client (type 'help' for commands)")
		status = a.status
	}
	runREPL(ctx, a, status, a.reader)
}

func (a *App) start(ctx context.Context) {
	if p, ok := a.client.(primer); ok {
		if err := p.Prime(ctx); err != nil {
			a.log.Warn(ctx, "backend not reachable yet", "err", err)
		}
	}

	n, err := a.gallery.Recover(ctx)
	if err != nil {
		a.log.Warn(ctx, "gallery recovery failed", "err", err)
		return
	}
	if n > 0 {
		a.log.Info(ctx, "deleted items left over from a previous session", "items", n)
	}
}

func (a *App) shutdown(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	a.gallery.Close(ctx, services.CloseProgrammatic)

	sctx, cancel := context.WithTimeout(ctx, a.shutdownTimeout)
	defer cancel()

	if err := a.stream.Dismiss(sctx); err != nil {
		a.log.Warn(ctx, "livestream teardown failed", "err", err)
	}

	done := make(chan struct{})
	go func() {
		a.gallery.Wait()
		a.stream.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-sctx.Done():
		a.log.Warn(ctx, "shutdown timed out; leftovers will be cleaned up on next start", "timeout", a.shutdownTimeout)
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn(ctx, "close failed", "err", err)
		}
	}
}
