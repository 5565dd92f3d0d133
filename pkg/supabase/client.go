package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const (
	defaultTimeout             = 30 * time.Second
	errorBodyReadLimit   int64 = 1024
	preferRepresentation       = "return=representation"
	preferMinimal              = "return=minimal"
)

var (
	errBaseURLRequired = errors.New("backend url is required")
	errAPIKeyRequired  = errors.New("backend api key is required")
)

// RequestObserver receives one call per backend round trip.
type RequestObserver interface {
	ObserveRequest(endpoint, method string, status int, elapsed time.Duration, err error)
}

// Client talks to the hosted PostgREST data API and the GoTrue auth API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	observer   RequestObserver
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithMetrics(observer RequestObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

// NewClient builds the backend client for the project rooted at baseURL.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	trimmedURL := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmedURL == "" {
		return nil, errBaseURLRequired
	}
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    trimmedURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logg:       logger.Nop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return client, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	token  string
	prefer string
}

// do executes r and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+r.path+" request")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, c.buildURL(r.path, r.query), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build "+r.path+" request")
	}

	token := strings.TrimSpace(r.token)
	if token == "" {
		token = c.apiKey
	}
	httpReq.Header.Set("apikey", c.apiKey)
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if r.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if r.prefer != "" {
		httpReq.Header.Set("Prefer", r.prefer)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(r, 0, started, err)
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "execute "+r.path+" request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		apiErr := newAPIError(resp.StatusCode, raw)
		c.observe(r, resp.StatusCode, started, apiErr)
		return pkgerrors.Wrap(codeForStatus(resp.StatusCode), apiErr, fmt.Sprintf("%s %s failed", r.method, r.path))
	}
	c.observe(r, resp.StatusCode, started, nil)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "read "+r.path+" response")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+r.path+" response")
	}
	return nil
}

func (c *Client) observe(r request, status int, started time.Time, err error) {
	elapsed := time.Since(started)
	if c.observer != nil {
		c.observer.ObserveRequest(r.path, r.method, status, elapsed, err)
	}
	fields := map[string]any{
		"endpoint":    r.path,
		"method":      r.method,
		"status":      status,
		"duration_ms": elapsed.Milliseconds(),
	}
	c.logg.Debug(c.logg.WithFields(context.Background(), fields), "backend request")
}

func (c *Client) buildURL(path string, query url.Values) string {
	path = strings.TrimLeft(path, "/")
	full := fmt.Sprintf("%s/%s", c.baseURL, path)
	if len(query) == 0 {
		return full
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return full + sep + query.Encode()
}
