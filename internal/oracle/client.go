package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Job is one outbound verification call: hit the external API and read a
// boolean off the response at the configured JSON path.
type Job struct {
	RequestID string
	Method    string
	URL       string
	Path      string // dot-separated, e.g. "data.result.valid"
}

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Verify performs the job's HTTP call and extracts the boolean verdict.
func (c *Client) Verify(ctx context.Context, job Job) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, job.Method, job.URL, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("oracle endpoint returned %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	return extractBool(body, job.Path)
}

func extractBool(body map[string]any, path string) (bool, error) {
	var current any = body
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return false, fmt.Errorf("path %q: %q is not an object", path, key)
		}
		current, ok = obj[key]
		if !ok {
			return false, fmt.Errorf("path %q: missing key %q", path, key)
		}
	}
	switch v := current.(type) {
	case bool:
		return v, nil
	case string:
		// Some feeds report "true"/"false" strings.
		return v == "true", nil
	default:
		return false, fmt.Errorf("path %q: value is not a boolean", path)
	}
}
