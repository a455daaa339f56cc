// Package statsapi is a thin HTTP gateway to the external golf Stats API.
//
// No local golf-stats tables exist in this database; all stats data is
// fetched from the external service and cached in Redis by the caller.
package statsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	pkglogger "github.com/caddystats/content-backend/pkg/logger"
)

// Client issues GET requests against the Stats API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Stats API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Get issues a GET to path and returns the raw JSON body.
// Non-2xx responses are returned as errors.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		pkglogger.GetLogger().Warn().Str("url", url).Err(err).Msg("stats API request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		pkglogger.GetLogger().Warn().Str("url", url).Int("status", resp.StatusCode).Msg("stats API HTTP error")
		return nil, fmt.Errorf("stats API returned %d for %s", resp.StatusCode, path)
	}

	return io.ReadAll(resp.Body)
}

// GetLeaderboard returns leaderboard data for the given tournament
func (c *Client) GetLeaderboard(ctx context.Context, tournamentID string) ([]byte, error) {
	return c.Get(ctx, fmt.Sprintf("/tournaments/%s/leaderboard", tournamentID))
}

// GetFeaturedEdges returns featured player edges for the given tournament
func (c *Client) GetFeaturedEdges(ctx context.Context, tournamentID string) ([]byte, error) {
	return c.Get(ctx, fmt.Sprintf("/tournaments/%s/featured-edges", tournamentID))
}

// GetTournamentCard returns summary card metadata for the given tournament
func (c *Client) GetTournamentCard(ctx context.Context, tournamentID string) ([]byte, error) {
	return c.Get(ctx, fmt.Sprintf("/tournaments/%s/card", tournamentID))
}
