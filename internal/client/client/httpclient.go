package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/common"
	"github.com/gorilla/websocket"
)

const (
	pathUpload           = "upload/"
	pathDeleteFile       = "delete-file/"
	pathUploadedImages   = "uploaded-images/"
	pathDeleteImage      = "delete-image/"
	pathDeleteAllImages  = "delete-all-images/"
	pathStreamDisconnect = "livestream/disconnect/"
	pathStream           = "ws/livestream/"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type HTTPClient struct {
	base      *url.URL
	streamURL string
	jar       http.CookieJar
	http      *http.Client
	dialer    *websocket.Dialer
}

type Option func(*HTTPClient)

// WithStreamURL overrides the livestream socket address. By default it is
// derived from the base URL (ws/wss + /ws/livestream/).
func WithStreamURL(u string) Option {
	return func(c *HTTPClient) {
		if u != "" {
			c.streamURL = u
		}
	}
}

// WithTransport replaces the HTTP round tripper. The cookie jar is kept.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) {
		c.http.Transport = rt
	}
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &HTTPClient{
		base: base,
		jar:  jar,
		http: &http.Client{Jar: jar},
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: websocket.DefaultDialer.HandshakeTimeout,
			Jar:              jar,
		},
	}

	ws := *base
	ws.Scheme = "ws"
	if base.Scheme == "https" {
		ws.Scheme = "wss"
	}
	ws.Path = base.Path + pathStream
	c.streamURL = ws.String()

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Prime fetches the base URL so the backend can set its CSRF cookie.
func (c *HTTPClient) Prime(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *HTTPClient) StreamURL() string {
	return c.streamURL
}

func (c *HTTPClient) resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	return c.base.ResolveReference(u), nil
}

func (c *HTTPClient) csrfToken(u *url.URL) string {
	for _, ck := range c.jar.Cookies(u) {
		if ck.Name == common.CSRFCookieName {
			return ck.Value
		}
	}
	return ""
}

func (c *HTTPClient) do(ctx context.Context, method, ref, contentType string, body io.Reader, out any) error {
	u, err := c.resolve(ref)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if method != http.MethodGet {
		if tok := c.csrfToken(u); tok != "" {
			req.Header.Set(common.CSRFHeaderName, tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s %s returned %d", ErrBadStatus, method, u.Path, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, method, u.Path, err)
	}
	return nil
}

func (c *HTTPClient) Upload(ctx context.Context, r models.UploadRequest) ([]models.DetectionResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	ct := r.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		common.UploadField, quoteEscaper.Replace(r.Filename)))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(r.Data); err != nil {
		return nil, err
	}

	switch r.Mode {
	case models.ModeBlur:
		err = w.WriteField("blurred", "true")
	case models.ModeForce:
		err = w.WriteField("force_upload", "true")
	}
	if err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var resp struct {
		Results *[]models.DetectionResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, pathUpload, w.FormDataContentType(), &body, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("%w: upload response has no results", ErrMalformedResponse)
	}
	for _, res := range *resp.Results {
		if res.Filename == "" {
			return nil, fmt.Errorf("%w: result without filename", ErrMalformedResponse)
		}
	}

	return *resp.Results, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, filename string) error {
	b, err := json.Marshal(map[string]string{"filename": filename})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, pathDeleteFile, "application/json", bytes.NewReader(b), nil)
}

func (c *HTTPClient) ListImages(ctx context.Context) ([]models.StoredImage, error) {
	var resp struct {
		Images *[]models.StoredImage `json:"images"`
	}
	if err := c.do(ctx, http.MethodGet, pathUploadedImages, "", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Images == nil {
		return nil, fmt.Errorf("%w: listing has no images", ErrMalformedResponse)
	}
	return *resp.Images, nil
}

func (c *HTTPClient) DeleteImage(ctx context.Context, name string) error {
	form := url.Values{"filename": {name}}
	return c.do(ctx, http.MethodPost, pathDeleteImage, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()), nil)
}

func (c *HTTPClient) DeleteAllImages(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, pathDeleteAllImages, "", nil, nil)
}

// Fetch downloads rawURL, which may be relative to the base URL. The caller
// closes the returned body.
func (c *HTTPClient) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := c.resolve(rawURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s returned %d", ErrBadStatus, u.Path, resp.StatusCode)
	}
	return resp.Body, nil
}

func (c *HTTPClient) DisconnectStream(ctx context.Context) (models.DisconnectStatus, error) {
	var resp struct {
		Status models.DisconnectStatus `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, pathStreamDisconnect, "", nil, &resp); err != nil {
		return "", err
	}
	if resp.Status == "" {
		return "", fmt.Errorf("%w: disconnect response has no status", ErrMalformedResponse)
	}
	return resp.Status, nil
}

func (c *HTTPClient) OpenStream(ctx context.Context) (Stream, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.streamURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: dial %s returned %d", ErrBadStatus, c.streamURL, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: dial %s: %w", ErrUnavailable, c.streamURL, err)
	}
	return newWSStream(conn), nil
}
