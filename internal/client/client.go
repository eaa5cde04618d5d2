// Package client is a typed HTTP client for the clinical data API. Every call
// goes through a contract route, so request bodies are validated before they
// are sent and responses are decoded into the type the route registers for
// the returned status.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/yukikurage/clinical-data-api/internal/contract"
	apierrors "github.com/yukikurage/clinical-data-api/internal/errors"
)

// auditFamily is invalidated after every mutation since each one may append
// to the audit trail.
const auditFamily = "audit"

// dependentFamilies lists families whose cached responses embed records of
// another family. auth.me returns a user record.
var dependentFamilies = map[string][]string{
	"users": {"auth"},
}

// invalidatedBy returns the families a successful mutation on route makes stale.
func invalidatedBy(route contract.Route) []string {
	families := []string{route.Family(), auditFamily}
	return append(families, dependentFamilies[route.Family()]...)
}

// StatusError is returned when the server answers with a non-success status.
type StatusError struct {
	Route  string
	Status int
	API    *apierrors.APIError
}

func (e *StatusError) Error() string {
	if e.API != nil {
		return fmt.Sprintf("%s: %d %s: %s", e.Route, e.Status, e.API.Code, e.API.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Route, e.Status)
}

type cacheEntry struct {
	family string
	status int
	body   []byte
}

// Client talks to one API server and keeps its session cookie between calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	noCache    bool

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is added
// when it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithoutCache disables the GET cache.
func WithoutCache() Option {
	return func(c *Client) {
		c.noCache = true
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		cache:      make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	return c, nil
}

// Do calls route with the given path params, query and body, decoding a
// success response into out. out must be a pointer to the route's success
// type, or nil to discard the body. Non-success statuses come back as
// *StatusError.
func (c *Client) Do(ctx context.Context, route contract.Route, params map[string]any, query url.Values, body, out any) error {
	if err := route.ValidateInput(body); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	if out != nil {
		want, _ := route.ResponseType(route.SuccessStatus())
		got := reflect.TypeOf(out)
		if got.Kind() != reflect.Pointer || got.Elem() != want {
			return fmt.Errorf("%s: out must be *%s, got %s", route.Name, want, got)
		}
	}

	target := c.baseURL + contract.WithQuery(contract.BuildURL(route.Path, params), query)
	key := route.Name + " " + target

	if !route.Mutates() && !c.noCache {
		if entry, ok := c.cached(key); ok {
			return c.decode(route, entry.status, entry.body, out)
		}
	}

	status, raw, err := c.send(ctx, route, target, body)
	if err != nil {
		return err
	}

	if status >= 200 && status < 300 {
		if route.Mutates() {
			c.Invalidate(invalidatedBy(route)...)
		} else if !c.noCache {
			c.store(key, cacheEntry{family: route.Family(), status: status, body: raw})
		}
	}
	return c.decode(route, status, raw, out)
}

func (c *Client) send(ctx context.Context, route contract.Route, target string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", route.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: failed to read response: %w", route.Name, err)
	}
	return resp.StatusCode, raw, nil
}

func (c *Client) decode(route contract.Route, status int, raw []byte, out any) error {
	if !route.Accepts(status) {
		return &StatusError{Route: route.Name, Status: status}
	}

	if status < 200 || status >= 300 {
		var apiErr apierrors.APIError
		if err := json.Unmarshal(raw, &apiErr); err != nil {
			return &StatusError{Route: route.Name, Status: status}
		}
		return &StatusError{Route: route.Name, Status: status, API: &apiErr}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", route.Name, err)
	}
	return nil
}

func (c *Client) cached(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	return entry, ok
}

func (c *Client) store(key string, entry cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = entry
}

// Invalidate drops cached responses of the given route families.
func (c *Client) Invalidate(families ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.cache {
		for _, family := range families {
			if entry.family == family {
				delete(c.cache, key)
				break
			}
		}
	}
}

// InvalidateAll empties the cache.
func (c *Client) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.cache)
}
