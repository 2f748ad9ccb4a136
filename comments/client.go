// Package comments is a client for the chime comments service.
package comments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRoot   = "api/v1"
	maxConcurrent = 10
)

// Config configures a Client. Endpoint is the service base URL; Root is the
// API path prefix under it (default "api/v1"). A nil HTTPClient gets a
// client with no timeout; embedders that want one supply their own.
type Config struct {
	Endpoint   string
	APIKey     string
	Root       string
	HTTPClient *http.Client
}

// Client talks to the comments service. It is safe for concurrent use.
type Client struct {
	http   *http.Client
	apiKey string
	base   string
}

// New creates a comments service client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	root := cfg.Root
	if root == "" {
		root = defaultRoot
	}
	return &Client{
		http:   httpClient,
		apiKey: cfg.APIKey,
		base:   strings.TrimRight(cfg.Endpoint, "/") + "/" + strings.Trim(root, "/"),
	}
}

// do sends the request with the service headers and decodes the JSON
// response into dst. Non-2xx responses come back as *APIError.
func (c *Client) do(req *http.Request, dst interface{}) error {
	req.Header.Set("User-Agent", "chime/1.0")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "requesting %s", req.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return errors.Wrapf(err, "decoding response from %s", req.URL)
	}
	return nil
}

// apiError reads a non-success body and extracts the server's message, if
// the body is JSON and has one.
func apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, _ := io.ReadAll(resp.Body)
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
	}
	return apiErr
}

// List fetches the comment listing for a post. An empty order means the
// service default, newest first.
func (c *Client) List(ctx context.Context, postID int, order Order) (*Response, error) {
	if order == "" {
		order = OrderDesc
	}
	url := fmt.Sprintf("%s/posts/%d/comments?order=%s", c.base, postID, order)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	var r Response
	if err := c.do(req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create submits a new comment on a post.
func (c *Client) Create(ctx context.Context, postID int, sub Submission) (*Result, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, errors.Wrap(err, "encoding submission")
	}
	url := fmt.Sprintf("%s/posts/%d/comments", c.base, postID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	var res Result
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Recaptcha fetches the service's bot-mitigation configuration.
func (c *Client) Recaptcha(ctx context.Context) (*RecaptchaConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/recaptcha/config", nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	var cfg RecaptchaConfig
	if err := c.do(req, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Counts fetches the comment count for multiple posts concurrently with a
// concurrency limit. Posts whose listing fails are absent from the result.
func (c *Client) Counts(ctx context.Context, postIDs []int) (map[int]int, error) {
	counts := make(map[int]int, len(postIDs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for _, id := range postIDs {
		id := id
		g.Go(func() error {
			resp, err := c.List(ctx, id, OrderDesc)
			if err != nil {
				// Non-fatal: individual posts can fail.
				log.Debug().Int("post_id", id).Err(err).Msg("count fetch failed")
				return nil
			}
			mu.Lock()
			counts[id] = resp.Count
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
