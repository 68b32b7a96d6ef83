package remoteapi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds every remote call client-wide; there is no
	// per-call deadline beyond the caller's context.
	DefaultTimeout = 10 * time.Second

	// tunnelSkipHeader suppresses the tunnel provider's browser
	// interstitial page on free-tier endpoints.
	tunnelSkipHeader = "ngrok-skip-browser-warning"

	maxBodySize = 1 << 20
)

// NewHTTPClient returns the shared http client configuration for both
// remote services.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// NormalizeBaseURL validates and trims a user-supplied base URL. It returns
// ErrNoBaseURL when the value is empty or not http(s), so callers can skip
// the network round trip entirely.
func NormalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.HasPrefix(trimmed, "http") {
		return "", ErrNoBaseURL
	}
	return strings.TrimSuffix(trimmed, "/"), nil
}

// Do performs one request against a remote monitoring service and returns
// the raw body. Transport failures map to ConnectionError, non-2xx statuses
// to HTTPError.
func Do(ctx context.Context, client *http.Client, method, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tunnelSkipHeader, "true")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: err}
	}
	return body, nil
}
