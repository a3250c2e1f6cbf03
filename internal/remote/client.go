package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nhle/mailpane/internal/model"
)

// DefaultTimeout bounds a request when the caller passes zero.
const DefaultTimeout = 30 * time.Second

// Client is a thin HTTP client for the mail REST API. Every call is a
// single round trip: there is no retry and transport errors fail fast.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new mail API client. The token is optional; when set
// it is sent as a Bearer credential.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// List returns the emails matching filter in server order.
func (c *Client) List(ctx context.Context, filter model.Filter) ([]model.Email, error) {
	if filter == "" {
		filter = model.FilterAll
	}
	path := "/emails?filter=" + url.QueryEscape(string(filter))

	var emails []model.Email
	if err := c.do(ctx, http.MethodGet, path, nil, &emails); err != nil {
		return nil, fmt.Errorf("listing %s emails: %w", filter, err)
	}
	if emails == nil {
		emails = []model.Email{}
	}
	return emails, nil
}

// Get fetches a single email.
func (c *Client) Get(ctx context.Context, id string) (*model.Email, error) {
	var email model.Email
	if err := c.do(ctx, http.MethodGet, emailPath(id), nil, &email); err != nil {
		return nil, fmt.Errorf("getting email %s: %w", id, err)
	}
	return &email, nil
}

// Create sends a draft and returns the stored record.
func (c *Client) Create(ctx context.Context, draft model.Draft) (*model.Email, error) {
	var email model.Email
	if err := c.do(ctx, http.MethodPost, "/emails", draft, &email); err != nil {
		return nil, fmt.Errorf("creating email: %w", err)
	}
	return &email, nil
}

// Update applies a partial update and returns the full updated record.
func (c *Client) Update(
	ctx context.Context,
	id string,
	patch model.EmailPatch,
) (*model.Email, error) {
	var email model.Email
	if err := c.do(ctx, http.MethodPut, emailPath(id), patch, &email); err != nil {
		return nil, fmt.Errorf("updating email %s: %w", id, err)
	}
	return &email, nil
}

// Delete removes an email.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, emailPath(id), nil, nil); err != nil {
		return fmt.Errorf("deleting email %s: %w", id, err)
	}
	return nil
}

// Health checks that the API is reachable.
func (c *Client) Health(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil); err != nil {
		return fmt.Errorf("checking health: %w", err)
	}
	return nil
}

func emailPath(id string) string {
	return "/emails/" + url.PathEscape(id)
}

// do builds the request, sends it once, and decodes a JSON response into
// result. Non-2xx responses become a *RemoteStoreError.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteStoreError{
			Status: resp.StatusCode,
			Body:   string(respBody),
			Method: method,
			Path:   path,
		}
	}

	// No content to parse (e.g. 204).
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}
