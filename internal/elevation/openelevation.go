package elevation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const DefaultOpenElevationURL = "https://api.open-elevation.com"

// OpenElevation is a Lookup backed by the open-elevation batch endpoint.
type OpenElevation struct {
	baseURL string
	client  *http.Client
}

func NewOpenElevation(baseURL string, client *http.Client) *OpenElevation {
	if baseURL == "" {
		baseURL = DefaultOpenElevationURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &OpenElevation{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *OpenElevation) Elevations(ctx context.Context, coords []Coordinate) ([]float64, error) {
	payload, err := json.Marshal(map[string][]Coordinate{"locations": coords})
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/lookup", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("elevation API error %d: %s", resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("elevation API returned invalid JSON")
	}

	results := gjson.GetBytes(body, "results")
	if !results.IsArray() {
		return nil, fmt.Errorf("elevation API response has no results")
	}

	entries := results.Array()
	out := make([]float64, 0, len(entries))
	for i, entry := range entries {
		v := entry.Get("elevation")
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("result %d has no numeric elevation", i)
		}
		out = append(out, v.Float())
	}
	return out, nil
}
