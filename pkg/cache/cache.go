package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss key not present
var ErrCacheMiss = errors.New("cache miss")

// TTLs per data class
const (
	TTLStats    = 2 * time.Minute  // proxied golf-stats responses
	TTLNav      = 10 * time.Minute // navigation menus (changes rarely)
	TTLProducts = 5 * time.Minute  // published product listings
	TTLDefault  = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixStats   = "stats:"
	PrefixNav     = "nav:"
	PrefixProduct = "product:"
)

// Service Redis cache for viewer-independent reads
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	GetStats(ctx context.Context, endpoint string) ([]byte, error)
	SetStats(ctx context.Context, endpoint string, payload []byte) error

	InvalidateNav(ctx context.Context, menuSlug string) error
	InvalidateProducts(ctx context.Context) error
}

type service struct {
	client *redis.Client
}

// NewService creates a Redis-backed cache service. A nil client yields
// a no-op service so the API can run without Redis.
func NewService(client *redis.Client) Service {
	if client == nil {
		return noopService{}
	}
	return &service{client: client}
}

func (s *service) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (s *service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *service) GetStats(ctx context.Context, endpoint string) ([]byte, error) {
	data, err := s.client.Get(ctx, PrefixStats+endpoint).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

func (s *service) SetStats(ctx context.Context, endpoint string, payload []byte) error {
	return s.client.Set(ctx, PrefixStats+endpoint, payload, TTLStats).Err()
}

func (s *service) InvalidateNav(ctx context.Context, menuSlug string) error {
	return s.client.Del(ctx, fmt.Sprintf("%s%s", PrefixNav, menuSlug)).Err()
}

func (s *service) InvalidateProducts(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, PrefixProduct+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return s.Delete(ctx, keys...)
}

type noopService struct{}

func (noopService) Get(context.Context, string, interface{}) error { return ErrCacheMiss }
func (noopService) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (noopService) Delete(context.Context, ...string) error          { return nil }
func (noopService) GetStats(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }
func (noopService) SetStats(context.Context, string, []byte) error   { return nil }
func (noopService) InvalidateNav(context.Context, string) error      { return nil }
func (noopService) InvalidateProducts(context.Context) error         { return nil }
