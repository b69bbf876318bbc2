// Package geoip resolves client addresses to a country and city using an
// ip-api.com compatible JSON endpoint.
package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrLookupFailed = errors.New("geo lookup failed")

// Location is the result of a successful lookup.
type Location struct {
	Country string
	City    string
}

// Client queries the geo endpoint. Every call is bounded by the client timeout.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a client for endpoint (e.g. "http://ip-api.com/json").
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// Lookup resolves ip. Network errors, timeouts, non-200 responses, malformed
// bodies and "fail" statuses are all reported as ErrLookupFailed.
func (c *Client) Lookup(ctx context.Context, ip string) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+url.PathEscape(ip), nil)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("%w: unexpected status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, fmt.Errorf("%w: decode response: %v", ErrLookupFailed, err)
	}
	if body.Status != "success" {
		return Location{}, fmt.Errorf("%w: status %q: %s", ErrLookupFailed, body.Status, body.Message)
	}

	return Location{Country: body.Country, City: body.City}, nil
}
