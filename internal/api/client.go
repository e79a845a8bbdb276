package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/equip/internal/session"
)

// Service lists every resource call the screens depend on. It is
// implemented by *Client and can be faked in tests.
type Service interface {
	ListAssets(ctx context.Context, filter Filter) ([]Asset, error)
	CreateAsset(ctx context.Context, input AssetInput) (Asset, error)
	UpdateAsset(ctx context.Context, id int64, update AssetUpdate) (Asset, error)
	DeleteAsset(ctx context.Context, id int64) error
	ListRequests(ctx context.Context, filter Filter) ([]Request, error)
	CreateRequest(ctx context.Context, input RequestInput) (Request, error)
	UpdateRequestStatus(ctx context.Context, id int64, status RequestStatus) (Request, error)
	FetchStats(ctx context.Context) (Stats, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

const (
	// DefaultTimeout bounds every call when Options.Timeout is zero.
	DefaultTimeout = 30 * time.Second

	defaultBaseURL   = "http://127.0.0.1:8787"
	defaultUserAgent = "equip/0.1"
)

// Options configure a Client. SessionID is required and is sent on every
// call; it is resolved once at startup and never read from storage here.
type Options struct {
	BaseURL    string
	SessionID  string
	Timeout    time.Duration
	HTTPClient *http.Client
	UserAgent  string
}

// Client talks to the equipment API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	headers   http.Header
	timeout   time.Duration
	userAgent string
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		// The deadline is applied per request through the context.
		httpClient = &http.Client{}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		headers:   session.Headers(opts.SessionID),
		timeout:   timeout,
		userAgent: userAgent,
	}, nil
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Timeout returns the per-call deadline.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
