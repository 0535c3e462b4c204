// Package render holds the client for the external template-rendering
// service. The service receives a template identifier and a flat
// key→string field mapping and answers with raw PDF bytes or an error.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// Renderer invokes the external template-rendering service.
type Renderer interface {
	// Render performs exactly one request and returns the rendered
	// document bytes. It never retries; retry policy belongs to the caller.
	Render(ctx context.Context, templateID, apiKey string, fields map[string]string) ([]byte, error)
}

// Client is an HTTP implementation of Renderer.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a render client for the given endpoint URL with a
// per-request timeout.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

var _ Renderer = (*Client)(nil)

type renderRequest struct {
	TemplateID string            `json:"template_id"`
	Fields     map[string]string `json:"fields"`
}

// Render posts the field set to the rendering service and returns the
// response body. Three failure classes are folded into a single error:
// transport failure, a service-reported error payload, and an empty
// success body. Callers only need the distinction for diagnostics.
func (c *Client) Render(ctx context.Context, templateID, apiKey string, fields map[string]string) ([]byte, error) {
	body, err := json.Marshal(renderRequest{TemplateID: templateID, Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render service unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("render service returned %d: %s", resp.StatusCode, errorText(data))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("render service returned an empty document")
	}
	return data, nil
}

// errorText turns an error payload into something loggable. Payloads are
// occasionally binary and must be decoded as text before being surfaced.
func errorText(body []byte) string {
	const max = 512
	if len(body) == 0 {
		return "(no error payload)"
	}
	s := string(body)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	s = strings.TrimSpace(s)
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
