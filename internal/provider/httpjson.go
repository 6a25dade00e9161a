// Package provider holds what the external data adapters share: a pooled HTTP
// client and JSON request helpers.
package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	httpMaxIdleConns    = 10
	httpIdleConnTimeout = 30 * time.Second

	// maxBodyBytes bounds response bodies. The fuel station list is the largest at ~10MB.
	maxBodyBytes = 64 << 20
)

// NewHTTPClient returns a client with a keep-alive pool and a per-call timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        httpMaxIdleConns,
			MaxIdleConnsPerHost: httpMaxIdleConns,
			IdleConnTimeout:     httpIdleConnTimeout,
		},
	}
}

// StatusError is returned by DoJSON for a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// DoJSON sends req and decodes a 2xx JSON response into out.
func DoJSON(client *http.Client, req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxBodyBytes)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
