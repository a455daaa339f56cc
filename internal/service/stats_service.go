package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/pkg/cache"
	pkglogger "github.com/caddystats/content-backend/pkg/logger"
	"github.com/caddystats/content-backend/pkg/statsapi"
)

// StatsService proxies golf-stats reads through a short-lived Redis cache.
// No stats data is stored locally; a cold cache always hits the upstream.
type StatsService interface {
	Leaderboard(ctx context.Context, tournamentID string) (json.RawMessage, error)
	FeaturedEdges(ctx context.Context, tournamentID string) (json.RawMessage, error)
	TournamentCard(ctx context.Context, tournamentID string) (json.RawMessage, error)
}

type statsService struct {
	client *statsapi.Client
	cache  cache.Service
}

// NewStatsService creates a new StatsService
func NewStatsService(client *statsapi.Client, cacheSvc cache.Service) StatsService {
	return &statsService{client: client, cache: cacheSvc}
}

func (s *statsService) Leaderboard(ctx context.Context, tournamentID string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("leaderboard:%s", tournamentID)
	return s.cached(ctx, endpoint, func() ([]byte, error) {
		return s.client.GetLeaderboard(ctx, tournamentID)
	})
}

func (s *statsService) FeaturedEdges(ctx context.Context, tournamentID string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("featured-edges:%s", tournamentID)
	return s.cached(ctx, endpoint, func() ([]byte, error) {
		return s.client.GetFeaturedEdges(ctx, tournamentID)
	})
}

func (s *statsService) TournamentCard(ctx context.Context, tournamentID string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("card:%s", tournamentID)
	return s.cached(ctx, endpoint, func() ([]byte, error) {
		return s.client.GetTournamentCard(ctx, tournamentID)
	})
}

func (s *statsService) cached(ctx context.Context, endpoint string, fetch func() ([]byte, error)) (json.RawMessage, error) {
	if tournamentEmpty(endpoint) {
		return nil, common.ErrInvalidInput
	}

	if payload, err := s.cache.GetStats(ctx, endpoint); err == nil {
		return payload, nil
	}

	payload, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetStats(ctx, endpoint, payload); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("endpoint", endpoint).Msg("stats cache write failed")
	}
	return payload, nil
}

// tournamentEmpty rejects keys whose id segment is blank.
func tournamentEmpty(endpoint string) bool {
	for i := len(endpoint) - 1; i >= 0; i-- {
		if endpoint[i] == ':' {
			return i == len(endpoint)-1
		}
	}
	return false
}
