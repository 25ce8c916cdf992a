// Package proxy implements the request proxy layer of the gateway. Every
// endpoint is a narrow adapter that attaches the session's bearer token,
// forwards the request to the configured backend and relays the backend's
// status and JSON body back to the caller unchanged.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Client performs outbound requests against a single backend base URL.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Do forwards a request to the backend. The inbound request context is
// used so a disconnected caller cancels the outbound call. token and
// contentType are attached only when non-empty.
func (c *Client) Do(ctx context.Context, method, path, rawQuery, token, contentType string, body io.Reader) (*http.Response, error) {
	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build backend request: %w", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	return resp, nil
}

// Get forwards a GET with the caller's query string passed through verbatim.
func (c *Client) Get(ctx context.Context, path, rawQuery, token string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, rawQuery, token, "", nil)
}

// JSON forwards a request whose body is the JSON encoding of payload.
func (c *Client) JSON(ctx context.Context, method, path, token string, payload any) (*http.Response, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return c.Do(ctx, method, path, "", token, "application/json", bytes.NewReader(encoded))
}

// Relay writes the backend response to the caller following the relay
// contract: status verbatim; 2xx JSON passed through unchanged; a 2xx body
// that is not valid JSON becomes an empty object rather than an error;
// non-2xx bodies collapse to {"message": <best available text>}.
func Relay(c *gin.Context, resp *http.Response) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": "failed to read backend response"})
		return
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if resp.StatusCode == http.StatusNoContent {
			c.Status(http.StatusNoContent)
			return
		}
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 || !json.Valid(trimmed) {
			c.JSON(resp.StatusCode, gin.H{})
			return
		}
		// The original bytes are written as-is. Re-encoding would push
		// every number through float64 and corrupt 64-bit backend ids.
		c.Data(resp.StatusCode, "application/json", trimmed)
		return
	}

	c.JSON(resp.StatusCode, gin.H{"message": ErrorMessage(body, resp.StatusCode)})
}

// RelayError surfaces a network-level backend failure as 502 {"message"}.
func RelayError(c *gin.Context, err error) {
	c.JSON(http.StatusBadGateway, gin.H{"message": err.Error()})
}

// ErrorMessage extracts the most useful error text from a backend error
// body: its own "message" field when present, the raw text otherwise, or
// the status text when the body is empty.
func ErrorMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}
