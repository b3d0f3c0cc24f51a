package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"staycal/internal/domain/calendar"
)

// Fetcher retrieves the per-day available-property sets for a closed
// inclusive window.
type Fetcher interface {
	FetchDayMap(ctx context.Context, from, to calendar.Date) (map[string][]string, error)
}

// HTTPFetcher pulls day maps from the availability-map endpoint.
type HTTPFetcher struct {
	BaseURL string
	HTTP    *http.Client
}

func (f *HTTPFetcher) FetchDayMap(ctx context.Context, from, to calendar.Date) (map[string][]string, error) {
	endpoint := strings.TrimRight(f.BaseURL, "/") + "/properties/availability-map"
	query := url.Values{}
	query.Set("from", from.String())
	query.Set("to", to.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	httpClient := f.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: fetch day map: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("client: fetch day map: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Days map[string][]string `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("client: decode day map: %w", err)
	}
	if body.Days == nil {
		body.Days = map[string][]string{}
	}
	return body.Days, nil
}
