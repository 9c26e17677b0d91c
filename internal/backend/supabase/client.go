// Package supabase is a thin HTTP client for the hosted backend: GoTrue
// for authentication and PostgREST for table storage. It handles the
// apikey and Bearer headers, JSON (de)serialization, and maps error
// responses onto typed errors.
package supabase

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
)

// Client talks to one backend project. It is safe for concurrent use.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewClient creates a backend client. baseURL is the project root URL
// (auth lives under /auth/v1, tables under /rest/v1); anonKey is the
// public API key sent with every request.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// request carries everything one backend call needs.
type request struct {
	method string
	path   string
	query  url.Values

	// bearer is the user's access token; empty falls back to the anon key.
	bearer string

	// prefer sets the Prefer header (PostgREST insert-returning).
	prefer string

	body   interface{}
	result interface{}
}

// do executes one request against the backend and unmarshals the JSON
// response into req.result when it is non-nil.
func (c *Client) do(ctx context.Context, req request) error {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var bodyReader io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("apikey", c.anonKey)
	bearer := req.bearer
	if bearer == "" {
		bearer = c.anonKey
	}
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", req.method, req.path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp.StatusCode, req, respBody)
	}

	if req.result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, req.result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", req.method, req.path, err)
	}
	return nil
}

// statusError converts a non-2xx response into a typed error. Auth
// endpoints get AuthError so the form can show the backend's message;
// everything else keeps the raw detail for the logs.
func (c *Client) statusError(status int, req request, body []byte) error {
	var wire errorResponse
	_ = json.Unmarshal(body, &wire)
	detail := wire.message()

	if strings.HasPrefix(req.path, authPrefix) {
		return &AuthError{
			StatusCode: status,
			Message:    authMessage(status, detail),
			Detail:     detail,
		}
	}

	if detail != "" {
		return fmt.Errorf("backend error (%d) on %s %s: %s",
			status, req.method, req.path, detail)
	}
	return fmt.Errorf("unexpected status %d on %s %s: %s",
		status, req.method, req.path, string(body))
}
