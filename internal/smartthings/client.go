package smartthings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/vplan-io/vplan-core/internal/infrastructure/config"
	"github.com/vplan-io/vplan-core/internal/infrastructure/logging"
	"github.com/vplan-io/vplan-core/internal/reconcile"
)

// Pagination limits for lookup requests. The API paginates, but nobody has
// hundreds of locations or rooms, so one big page per listing suffices.
const (
	locationLimit = "100"
	roomLimit     = "250"
	deviceLimit   = "1000"
)

// Client is the SmartThings API client shared by all plans.
//
// The client itself carries no credentials. Callers open a Session with the
// account's PAT token and a location name; the session resolves the
// location's id, rooms, devices and time zone once, then serves rule and
// device operations against those mappings.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a SmartThings client from configuration.
func NewClient(cfg config.SmartThingsConfig, logger *logging.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.GetRequestTimeout(),
		},
		logger: logger,
	}
}

// do performs one API request and decodes the JSON response into out (when
// out is non-nil). Failures are classified for the reconciliation engine:
// network errors, timeouts, 429 and 5xx responses are transient; other
// non-2xx responses are hard.
func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.smartthings+json;v=1")
	req.Header.Set("Accept-Language", "en_US")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", reconcile.ErrRemoteTransient, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp, method, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response from %s %s: %w", method, path, err)
		}
	}
	return nil
}

// classifyStatus maps a non-2xx response to a transient or hard error.
func classifyStatus(resp *http.Response, method, path string) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	kind := reconcile.ErrRemoteHard
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		kind = reconcile.ErrRemoteTransient
	}
	return fmt.Errorf("%w: %s %s: status %d: %s", kind, method, path, resp.StatusCode, string(snippet))
}
