package bms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bms_proxy/internal/logger"
	"bms_proxy/internal/models"
)

// Defaults for the vendor connection.
const (
	DefaultBaseURL   = "https://bmsdev.chakranetwork.com:8080/bms"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

const (
	acceptHeader    = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeText = "text/plain"
	maxBodyBytes    = 4 << 20
)

// Config configures the vendor HTTP client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client performs single-attempt calls against the vendor web API.
// Redirects are never followed so the Location header stays visible.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	log       *logger.Logger
}

// reply is a fully read vendor response.
type reply struct {
	status  int
	header  http.Header
	cookies []*http.Cookie
	body    []byte
}

func (r *reply) contentType() string {
	return r.header.Get("Content-Type")
}

// NewClient builds a Client, filling zero config values with defaults.
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: log,
	}
}

func (c *Client) post(ctx context.Context, path, contentType, body string, sess *models.Session) (*reply, error) {
	return c.do(ctx, http.MethodPost, path, contentType, strings.NewReader(body), sess)
}

func (c *Client) get(ctx context.Context, path string, sess *models.Session) (*reply, error) {
	return c.do(ctx, http.MethodGet, path, "", nil, sess)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, sess *models.Session) (*reply, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("build vendor url for %q: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build vendor request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sess != nil && sess.Valid() {
		req.Header.Set("Cookie", cookieHeader(*sess))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrVendorUnreachable, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s reply: %w", ErrVendorUnreachable, path, err)
	}
	c.log.Debugw("bms_http_exchange", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(b))

	return &reply{
		status:  resp.StatusCode,
		header:  resp.Header,
		cookies: resp.Cookies(),
		body:    b,
	}, nil
}
