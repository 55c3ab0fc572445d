package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Client is a cookie-aware HTTP client for exercising the JSON API. The
// cookie jar keeps the session cookie, and with it the device identity,
// across requests.
type Client struct {
	client *http.Client
	url    string
}

// NewClient creates a JSON API client against the given server URL.
func NewClient(url string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		client: &http.Client{Jar: jar},
		url:    url,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return fmt.Errorf("close response body: %w", err)
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return fmt.Errorf("close response body: %w", err)
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Do sends a request with an optional JSON body and decodes a JSON response
// into responseDst when it is non-nil. It returns the HTTP status code.
func (c *Client) Do(ctx context.Context, method, urlPath string, requestBody, responseDst any) (_ int, err error) {
	var bodyReader io.Reader
	if requestBody != nil {
		var encoded []byte
		if encoded, err = json.Marshal(requestBody); err != nil {
			return 0, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close response body: %w", closeErr))
		}
	}()

	if responseDst != nil && resp.StatusCode != http.StatusNoContent {
		if err = json.NewDecoder(resp.Body).Decode(responseDst); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response body: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// GetJSON fetches urlPath and decodes the JSON response into responseDst.
func (c *Client) GetJSON(ctx context.Context, urlPath string, responseDst any) (int, error) {
	return c.Do(ctx, http.MethodGet, urlPath, nil, responseDst)
}

// PostJSON posts requestBody as JSON and decodes the response into responseDst.
func (c *Client) PostJSON(ctx context.Context, urlPath string, requestBody, responseDst any) (int, error) {
	return c.Do(ctx, http.MethodPost, urlPath, requestBody, responseDst)
}

// Delete issues a DELETE request to urlPath.
func (c *Client) Delete(ctx context.Context, urlPath string) (int, error) {
	return c.Do(ctx, http.MethodDelete, urlPath, nil, nil)
}
