// Package client fetches teams, players, and rosters from the external
// roster data provider.
//
// The provider wraps every payload in {"data": [...], "meta": {"next_cursor"}}
// with cursor pagination and Authorization header auth. Fetch failures are
// never retried here; the sync pipeline aborts the whole run instead, so a
// flaky provider can never leave half-written data behind.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"nbaroster/backend/internal/metrics"
)

// ErrSourceUnavailable wraps every provider failure. The sync pipeline
// checks it to distinguish "provider down" from its own errors.
var ErrSourceUnavailable = errors.New("external source unavailable")

// ExternalTeam is a normalized team record from the provider.
type ExternalTeam struct {
	ID           string `json:"id"`
	Name         string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
}

// ExternalPlayer is a normalized player record from the provider. Position
// is filled later from roster data.
type ExternalPlayer struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RosterEntry is one player slot on a team's roster for a season.
type RosterEntry struct {
	PlayerID string `json:"player_id"`
	Position string `json:"position"`
}

// Client is the roster provider API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	// Paces successive roster fetches to respect provider rate limits.
	rosterLimiter *rate.Limiter
}

// NewClient creates a provider client. rosterDelay is the fixed interval
// between successive roster fetches.
func NewClient(baseURL, apiKey string, timeout, rosterDelay time.Duration) *Client {
	return &Client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		rosterLimiter: rate.NewLimiter(rate.Every(rosterDelay), 1),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// page is the provider's common response wrapper.
type page struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		NextCursor *int `json:"next_cursor"`
	} `json:"meta"`
}

// get performs a single GET request. No retries.
func (c *Client) get(ctx context.Context, path string, params url.Values) (*page, error) {
	start := time.Now()

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordProviderCall(path, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: request %s: %v", ErrSourceUnavailable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordProviderCall(path, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: read %s response: %v", ErrSourceUnavailable, path, err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderCall(path, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrSourceUnavailable, path, resp.StatusCode, truncate(body, 200))
	}

	var result page
	if err := json.Unmarshal(body, &result); err != nil {
		metrics.RecordProviderCall(path, "decode_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: decode %s response: %v", ErrSourceUnavailable, path, err)
	}

	metrics.RecordProviderCall(path, "ok", time.Since(start).Seconds())
	return &result, nil
}

// FetchTeams fetches all teams.
func (c *Client) FetchTeams(ctx context.Context) ([]ExternalTeam, error) {
	result, err := c.get(ctx, "/teams", nil)
	if err != nil {
		return nil, err
	}

	var teams []ExternalTeam
	if err := json.Unmarshal(result.Data, &teams); err != nil {
		return nil, fmt.Errorf("%w: decode teams: %v", ErrSourceUnavailable, err)
	}
	return teams, nil
}

// FetchPlayers fetches the full player list, following cursor pagination
// until the provider reports no next cursor.
func (c *Client) FetchPlayers(ctx context.Context) ([]ExternalPlayer, error) {
	var (
		players []ExternalPlayer
		cursor  *int
	)

	for {
		params := url.Values{"per_page": {"100"}}
		if cursor != nil {
			params.Set("cursor", strconv.Itoa(*cursor))
		}

		result, err := c.get(ctx, "/players", params)
		if err != nil {
			return nil, err
		}

		var batch []ExternalPlayer
		if err := json.Unmarshal(result.Data, &batch); err != nil {
			return nil, fmt.Errorf("%w: decode players: %v", ErrSourceUnavailable, err)
		}
		players = append(players, batch...)

		if result.Meta.NextCursor == nil {
			return players, nil
		}
		cursor = result.Meta.NextCursor
	}
}

// FetchRoster fetches the roster of one team for one season label
// (e.g. "2024-25"). Calls are paced at the configured fixed interval.
func (c *Client) FetchRoster(ctx context.Context, teamExternalID, seasonLabel string) ([]RosterEntry, error) {
	if err := c.rosterLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: roster pacing: %v", ErrSourceUnavailable, err)
	}

	params := url.Values{"season": {seasonLabel}}
	result, err := c.get(ctx, "/teams/"+url.PathEscape(teamExternalID)+"/roster", params)
	if err != nil {
		return nil, err
	}

	var entries []RosterEntry
	if err := json.Unmarshal(result.Data, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode roster: %v", ErrSourceUnavailable, err)
	}
	return entries, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
