package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/securevision/internal/client/client"
	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/client/notify"
	"github.com/stretchr/testify/require"
)

/*************
 * Fake client
 *************/

type fakeClient struct {
	client.Client

	mu sync.Mutex

	uploadFn func(ctx context.Context, req models.UploadRequest) ([]models.DetectionResult, error)
	uploads  []models.UploadRequest

	deleteErr map[string]error
	deleted   []string

	images         []models.StoredImage
	listErr        error
	deleteImageErr error
	deletedImages  []string
	clears         int
	clearErr       error

	files    map[string]string
	fetchErr error

	openFn           func(ctx context.Context) (client.Stream, error)
	opens            int
	disconnectStatus models.DisconnectStatus
	disconnectErr    error
	disconnects      int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		deleteErr:        map[string]error{},
		files:            map[string]string{},
		disconnectStatus: models.StatusDisconnected,
	}
}

func (f *fakeClient) Upload(ctx context.Context, req models.UploadRequest) ([]models.DetectionResult, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, req)
	fn := f.uploadFn
	f.mu.Unlock()

	if fn == nil {
		return []models.DetectionResult{storedResult(req.Filename)}, nil
	}
	return fn(ctx, req)
}

func (f *fakeClient) Uploads() []models.UploadRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.UploadRequest(nil), f.uploads...)
}

func (f *fakeClient) DeleteFile(ctx context.Context, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[filename]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, filename)
	return nil
}

func (f *fakeClient) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeClient) ListImages(ctx context.Context) ([]models.StoredImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.StoredImage(nil), f.images...), f.listErr
}

func (f *fakeClient) DeleteImage(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteImageErr != nil {
		return f.deleteImageErr
	}
	f.deletedImages = append(f.deletedImages, name)
	return nil
}

func (f *fakeClient) DeleteAllImages(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return f.clearErr
}

func (f *fakeClient) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	body, ok := f.files[url]
	if !ok {
		return nil, client.ErrBadStatus
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (f *fakeClient) OpenStream(ctx context.Context) (client.Stream, error) {
	f.mu.Lock()
	f.opens++
	fn := f.openFn
	f.mu.Unlock()
	if fn == nil {
		return nil, client.ErrUnavailable
	}
	return fn(ctx)
}

func (f *fakeClient) DisconnectStream(ctx context.Context) (models.DisconnectStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	if f.disconnectErr != nil {
		return "", f.disconnectErr
	}
	return f.disconnectStatus, nil
}

func (f *fakeClient) counts() (opens, disconnects int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens, f.disconnects
}

/*************
 * Fake notifier
 *************/

type toast struct {
	kind  notify.Kind
	title string
	text  string
}

type fakeNotifier struct {
	mu       sync.Mutex
	choices  []notify.Choice
	promptFn func(ctx context.Context, p notify.Prompt) (notify.Choice, error)
	prompts  []notify.Prompt
	toasts   []toast
}

func (n *fakeNotifier) Prompt(ctx context.Context, p notify.Prompt) (notify.Choice, error) {
	n.mu.Lock()
	n.prompts = append(n.prompts, p)
	fn := n.promptFn
	choice := notify.ChoiceDismiss
	if len(n.choices) > 0 {
		choice, n.choices = n.choices[0], n.choices[1:]
	}
	n.mu.Unlock()

	if fn != nil {
		return fn(ctx, p)
	}
	return choice, nil
}

func (n *fakeNotifier) add(k notify.Kind, title, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toast{k, title, text})
}

func (n *fakeNotifier) Success(title, text string) { n.add(notify.KindSuccess, title, text) }
func (n *fakeNotifier) Info(title, text string)    { n.add(notify.KindInfo, title, text) }
func (n *fakeNotifier) Warn(title, text string)    { n.add(notify.KindWarning, title, text) }
func (n *fakeNotifier) Error(title, text string)   { n.add(notify.KindError, title, text) }

func (n *fakeNotifier) titles(k notify.Kind) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, t := range n.toasts {
		if t.kind == k {
			out = append(out, t.title)
		}
	}
	return out
}

func (n *fakeNotifier) find(title string) (toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, t := range n.toasts {
		if t.title == title {
			return t, true
		}
	}
	return toast{}, false
}

func (n *fakeNotifier) promptCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.prompts)
}

/*************
 * Fake collector / sink
 *************/

type recordingCollector struct {
	mu      sync.Mutex
	results []models.DetectionResult
}

func (c *recordingCollector) Collect(_ context.Context, r models.DetectionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *recordingCollector) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, r := range c.results {
		out = append(out, r.Filename)
	}
	return out
}

type memorySink struct {
	mu    sync.Mutex
	files map[string]string
	err   error
}

func newMemorySink() *memorySink { return &memorySink{files: map[string]string{}} }

func (s *memorySink) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = string(b)
	return "mem://" + name, nil
}

/*************
 * Helpers
 *************/

var errBoom = errors.New("boom")

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func pngFrame(t *testing.T, w, h int) client.Frame {
	t.Helper()
	return client.Frame{Payload: []byte(base64.StdEncoding.EncodeToString(pngBytes(t, w, h))), Encoded: true}
}

func storedResult(name string) models.DetectionResult {
	return models.DetectionResult{Filename: name, Stored: true, URL: "/media/uploaded/" + name}
}

func sensitiveResult(name string, matches ...string) models.DetectionResult {
	return models.DetectionResult{Filename: name, Sensitive: true, Matches: matches}
}
