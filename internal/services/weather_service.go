package services

import (
	"context"
	"errors"
	"log"

	"github.com/alertify/backend/internal/models"
	"github.com/alertify/backend/internal/observability"
)

// ErrAllProvidersFailed is returned only when every provider in the fallback
// chain has been exhausted.
var ErrAllProvidersFailed = errors.New("all weather providers failed")

// Observation is a provider's raw reading before normalization. Pointer
// fields distinguish "absent" from zero so the supplementary merge can fill
// gaps without clobbering real values. WindSpeed and Visibility are in
// whatever unit the provider used; normalization sorts that out.
type Observation struct {
	Temperature *float64
	FeelsLike   *float64
	Humidity    *int
	WindSpeed   *float64
	Visibility  *float64
	Pressure    *float64
	UVIndex     *float64
	Description string
	Icon        string
	Forecast    []models.DailyForecast
}

// WeatherProvider fetches conditions for a coordinate pair. Implementations
// bound their own timeouts.
type WeatherProvider interface {
	Name() string
	Fetch(ctx context.Context, lat, lng float64) (*Observation, error)
}

// WeatherService runs the provider fallback chain: primary model-backed
// provider, then the local proxy, then synthetic data derived from the
// coordinates so a caller always gets a usable snapshot. Individual provider
// failures are logged and swallowed.
type WeatherService struct {
	primary   WeatherProvider
	secondary WeatherProvider
	synthetic WeatherProvider
	cache     *WeatherCache
	metrics   *observability.Metrics
}

func NewWeatherService(primary, secondary WeatherProvider, cache *WeatherCache, metrics *observability.Metrics) *WeatherService {
	return &WeatherService{
		primary:   primary,
		secondary: secondary,
		synthetic: NewSyntheticProvider(),
		cache:     cache,
		metrics:   metrics,
	}
}

// GetWeather resolves a snapshot for the coordinates. It never blocks past
// the sum of the providers' configured timeouts.
func (s *WeatherService) GetWeather(ctx context.Context, lat, lng float64) (*models.WeatherSnapshot, error) {
	if snap := s.cacheGet(ctx, lat, lng); snap != nil {
		return snap, nil
	}

	if obs := s.try(ctx, s.primary, lat, lng); obs != nil {
		s.fillGaps(ctx, obs, lat, lng)
		snap := finalizeSnapshot(obs, models.SourceFusion)
		s.cacheSet(ctx, lat, lng, snap)
		return snap, nil
	}

	if obs := s.try(ctx, s.secondary, lat, lng); obs != nil {
		snap := finalizeSnapshot(obs, models.SourceLocal)
		s.cacheSet(ctx, lat, lng, snap)
		return snap, nil
	}

	if obs := s.try(ctx, s.synthetic, lat, lng); obs != nil {
		// Synthetic snapshots are not cached; they carry no information
		// worth serving to the next caller.
		return finalizeSnapshot(obs, models.SourceSynthetic), nil
	}

	return nil, ErrAllProvidersFailed
}

func (s *WeatherService) try(ctx context.Context, p WeatherProvider, lat, lng float64) *Observation {
	if p == nil {
		return nil
	}
	obs, err := p.Fetch(ctx, lat, lng)
	if err != nil {
		log.Printf("[weather] provider %s failed: %v", p.Name(), err)
		s.count(p.Name(), "error")
		return nil
	}
	s.count(p.Name(), "success")
	return obs
}

// fillGaps makes a best-effort secondary fetch solely to supply fields the
// primary response was missing. Present values are never overridden.
func (s *WeatherService) fillGaps(ctx context.Context, obs *Observation, lat, lng float64) {
	if obs.Visibility != nil && obs.Pressure != nil && obs.UVIndex != nil &&
		obs.Humidity != nil && obs.WindSpeed != nil {
		return
	}
	sec := s.try(ctx, s.secondary, lat, lng)
	if sec == nil {
		return
	}
	if obs.Visibility == nil {
		obs.Visibility = sec.Visibility
	}
	if obs.Pressure == nil {
		obs.Pressure = sec.Pressure
	}
	if obs.UVIndex == nil {
		obs.UVIndex = sec.UVIndex
	}
	if obs.Humidity == nil {
		obs.Humidity = sec.Humidity
	}
	if obs.WindSpeed == nil {
		obs.WindSpeed = sec.WindSpeed
	}
}

func (s *WeatherService) count(provider, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ProviderRequests.WithLabelValues(provider, outcome).Inc()
}

func (s *WeatherService) cacheGet(ctx context.Context, lat, lng float64) *models.WeatherSnapshot {
	if s.cache == nil {
		s.countCache("skip")
		return nil
	}
	snap, err := s.cache.Get(ctx, lat, lng)
	if err != nil || snap == nil {
		s.countCache("miss")
		return nil
	}
	s.countCache("hit")
	return snap
}

func (s *WeatherService) cacheSet(ctx context.Context, lat, lng float64, snap *models.WeatherSnapshot) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, lat, lng, snap); err != nil {
		log.Printf("[weather] cache write failed: %v", err)
	}
}

func (s *WeatherService) countCache(result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.WeatherCache.WithLabelValues(result).Inc()
}
