package competition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	DefaultStravaURL = "https://www.strava.com/api/v3"
	pageSize         = 100
	maxPages         = 50
)

var ErrMissingToken = errors.New("missing strava access token")

// Window is the competition period. End is exclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow reads YYYY-MM-DD dates in UTC. The end date is included in full.
func ParseWindow(start, end string) (Window, error) {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return Window{}, fmt.Errorf("competition start: %w", err)
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return Window{}, fmt.Errorf("competition end: %w", err)
	}
	e = e.AddDate(0, 0, 1)
	if !e.After(s) {
		return Window{}, fmt.Errorf("competition end %s is before start %s", end, start)
	}
	return Window{Start: s, End: e}, nil
}

// ActivityFetcher yields a rider's activities inside a window. The token is opaque.
type ActivityFetcher interface {
	Activities(ctx context.Context, accessToken string, window Window) ([]Activity, error)
}

type StravaClient struct {
	baseURL string
	client  *http.Client
}

func NewStravaClient(baseURL string, client *http.Client) *StravaClient {
	if baseURL == "" {
		baseURL = DefaultStravaURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &StravaClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Activities pages through /athlete/activities until a short or empty page.
func (c *StravaClient) Activities(ctx context.Context, accessToken string, window Window) ([]Activity, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))

	var all []Activity
	for page := 1; page <= maxPages; page++ {
		batch, err := c.page(ctx, httpClient, window, page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			break
		}
	}
	return all, nil
}

func (c *StravaClient) page(ctx context.Context, httpClient *http.Client, window Window, page int) ([]Activity, error) {
	q := url.Values{}
	q.Set("after", strconv.FormatInt(window.Start.Unix(), 10))
	q.Set("before", strconv.FormatInt(window.End.Unix(), 10))
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/athlete/activities?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("strava API error %d: %s", resp.StatusCode, string(body))
	}

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return activities, nil
}
