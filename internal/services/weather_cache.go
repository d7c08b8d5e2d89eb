package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alertify/backend/internal/models"
)

// WeatherCache keeps recently resolved snapshots in Redis so bursts of
// requests for the same place don't hammer the providers. Keys round the
// coordinates to 4 decimals, matching how the client stores its last
// location.
type WeatherCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWeatherCache connects to Redis. Returns an error if the server is
// unreachable; callers treat the cache as optional and run without one.
func NewWeatherCache(ctx context.Context, addr string, ttl time.Duration) (*WeatherCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("weather cache: %w", err)
	}
	return &WeatherCache{client: client, ttl: ttl}, nil
}

func (c *WeatherCache) Close() error {
	return c.client.Close()
}

func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("weather:lat_%.4f_lng_%.4f", lat, lng)
}

func (c *WeatherCache) Get(ctx context.Context, lat, lng float64) (*models.WeatherSnapshot, error) {
	raw, err := c.client.Get(ctx, cacheKey(lat, lng)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap models.WeatherSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *WeatherCache) Set(ctx context.Context, lat, lng float64, snap *models.WeatherSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(lat, lng), raw, c.ttl).Err()
}
