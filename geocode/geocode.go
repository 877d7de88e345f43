// Package geocode wraps the external reverse-geocoding service
// (Nominatim-compatible API). Failures here are expected — the caller
// degrades to a "not detected" response instead of surfacing an error.
package geocode

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	requestTimeout = 5 * time.Second
	// Nominatim usage policy requires an identifying User-Agent.
	userAgent = "mgnrega-tracker/1.0"
)

// Address is the structured part of a reverse-geocoding result. Only the
// fields used for district matching are decoded.
type Address struct {
	StateDistrict string `json:"state_district"`
	County        string `json:"county"`
	City          string `json:"city"`
	Village       string `json:"village"`
	State         string `json:"state"`
}

// Result is one reverse-geocoding response.
type Result struct {
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

// PlaceName picks the candidate name for district matching, most specific
// administrative level first. Empty when the geocoder returned nothing
// usable.
func (r *Result) PlaceName() string {
	for _, name := range []string{r.Address.StateDistrict, r.Address.County, r.Address.City, r.Address.Village} {
		if name != "" {
			return name
		}
	}
	return ""
}

// Client calls the reverse-geocoding HTTP API with a bounded timeout and a
// short retry/backoff.
type Client struct {
	httpClient *resty.Client
}

func New(baseURL string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: client}
}

// Reverse resolves coordinates to a place. zoom=10 asks for district-level
// detail.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*Result, error) {
	var result Result
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":            strconv.FormatFloat(lat, 'f', 6, 64),
			"lon":            strconv.FormatFloat(lng, 'f', 6, 64),
			"format":         "json",
			"zoom":           "10",
			"addressdetails": "1",
		}).
		SetResult(&result).
		Get("/reverse")

	if err != nil {
		return nil, fmt.Errorf("reverse geocoding request failed: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("reverse geocoding returned status %d", resp.StatusCode())
	}
	return &result, nil
}
