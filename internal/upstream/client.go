// Package upstream wraps the public read-only marketplace API. One method per
// endpoint; payloads are returned as loosely typed records because the server
// enforces no schema.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrMissingID is returned before any network call when a required
// identifier is absent
var ErrMissingID = errors.New("upstream: missing id")

// RequestError represents a transport or HTTP failure against an endpoint
type RequestError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream: %s returned HTTP %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("upstream: %s failed: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsCanceled reports whether the error is a request abort rather than a
// failure; callers suppress the error UI for aborts
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Client issues GET requests against the marketplace API
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	now     func() time.Time
}

// NewClient creates a new Client
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
		now:     time.Now,
	}
}

// get issues exactly one GET and returns the raw body, nil for an empty one
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (json.RawMessage, error) {
	target := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		// a context abort must stay distinguishable from a transport failure
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &RequestError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}

	c.log.Debug("upstream request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", c.now().Sub(start)))

	if len(body) == 0 {
		return nil, nil
	}
	return body, nil
}

// decodeRecords parses an array body into object records. An empty or null
// body is a valid zero-item response, never an error.
func decodeRecords(raw json.RawMessage, endpoint string) ([]map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	arr, ok := data.([]any)
	if !ok {
		return nil, nil
	}
	recs := make([]map[string]any, 0, len(arr))
	for _, entry := range arr {
		if m, ok := entry.(map[string]any); ok {
			recs = append(recs, m)
		}
	}
	return recs, nil
}

// cacheBust carries the timestamp parameter that defeats intermediary
// caching on author and detail lookups
func (c *Client) cacheBust(q url.Values) url.Values {
	q.Set("t", strconv.FormatInt(c.now().UnixMilli(), 10))
	return q
}

// HotCollections fetches the hot-collections carousel records
func (c *Client) HotCollections(ctx context.Context) ([]map[string]any, error) {
	raw, err := c.get(ctx, "hotCollections", nil)
	if err != nil {
		return nil, err
	}
	return decodeRecords(raw, "hotCollections")
}

// NewItems fetches the new-items carousel records
func (c *Client) NewItems(ctx context.Context) ([]map[string]any, error) {
	raw, err := c.get(ctx, "newItems", nil)
	if err != nil {
		return nil, err
	}
	return decodeRecords(raw, "newItems")
}

// TopSellers fetches the top-sellers ranking records
func (c *Client) TopSellers(ctx context.Context) ([]map[string]any, error) {
	raw, err := c.get(ctx, "topSellers", nil)
	if err != nil {
		return nil, err
	}
	return decodeRecords(raw, "topSellers")
}

// ExploreItems fetches the explore grid records
func (c *Client) ExploreItems(ctx context.Context) ([]map[string]any, error) {
	raw, err := c.get(ctx, "explore", nil)
	if err != nil {
		return nil, err
	}
	return decodeRecords(raw, "explore")
}

// Author fetches one author record. The response is sometimes wrapped in an
// author envelope, which is unwrapped here.
func (c *Client) Author(ctx context.Context, authorID string) (map[string]any, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, ErrMissingID
	}

	q := url.Values{"author": {authorID}}
	raw, err := c.get(ctx, "authors", c.cacheBust(q))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &RequestError{Endpoint: "authors", Err: err}
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, nil
	}
	if nested, ok := obj["author"].(map[string]any); ok {
		return nested, nil
	}
	return obj, nil
}

// AuthorItems fetches the item list belonging to an author. The list hides
// under several response shapes; the raw decoded body is returned for the
// normalizer to dig through.
func (c *Client) AuthorItems(ctx context.Context, authorID string) (any, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, ErrMissingID
	}

	q := url.Values{"author": {authorID}}
	raw, err := c.get(ctx, "authors", c.cacheBust(q))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &RequestError{Endpoint: "authors", Err: err}
	}
	return data, nil
}

// ItemDetails fetches the detail record for one listing
func (c *Client) ItemDetails(ctx context.Context, nftID string) (map[string]any, error) {
	if strings.TrimSpace(nftID) == "" {
		return nil, ErrMissingID
	}

	q := url.Values{"nftId": {nftID}}
	raw, err := c.get(ctx, "itemDetails", c.cacheBust(q))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &RequestError{Endpoint: "itemDetails", Err: err}
	}
	obj, _ := data.(map[string]any)
	return obj, nil
}
