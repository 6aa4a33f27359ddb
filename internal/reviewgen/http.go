package reviewgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/reviewlens/internal/domain/types"
)

// Client talks to the dashboard service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

// Health checks that the service answers GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	_, err = readBody(resp, http.StatusOK)
	return err
}

// Upload replaces the collection synchronously through POST /reviews.
func (c *Client) Upload(ctx context.Context, payload []byte) (types.UploadResult, error) {
	var res types.UploadResult
	err := c.call(ctx, http.MethodPost, "/reviews", payload, http.StatusOK, &res)
	return res, err
}

// Submit queues a replacement through POST /uploads.
func (c *Client) Submit(ctx context.Context, payload []byte) (types.UploadStatus, error) {
	var st types.UploadStatus
	err := c.call(ctx, http.MethodPost, "/uploads", payload, http.StatusAccepted, &st)
	return st, err
}

// UploadStatus fetches GET /uploads/{id}.
func (c *Client) UploadStatus(ctx context.Context, id string) (types.UploadStatus, error) {
	var st types.UploadStatus
	err := c.call(ctx, http.MethodGet, "/uploads/"+id, nil, http.StatusOK, &st)
	return st, err
}

// Summary fetches GET /summary.
func (c *Client) Summary(ctx context.Context) (types.Summary, error) {
	var s types.Summary
	err := c.call(ctx, http.MethodGet, "/summary", nil, http.StatusOK, &s)
	return s, err
}

func (c *Client) call(ctx context.Context, method, path string, body []byte, want int, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	data, err := readBody(resp, want)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var r io.Reader = http.NoBody
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to service: %w", err)
	}
	return resp, nil
}

// readBody reads and closes the response body, failing on an unexpected status.
func readBody(resp *http.Response, want int) ([]byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != want {
		return nil, fmt.Errorf("%w: got %d, want %d: %s", ErrUnexpectedStatus, resp.StatusCode, want, bytes.TrimSpace(data))
	}
	return data, nil
}
