package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, "demo-secret-token", cfg.DemoSecret)
	assert.Equal(t, "https://api.openweathermap.org/data/3.0", cfg.OpenWeatherBaseURL)
	assert.Equal(t, 25*time.Second, cfg.PrimaryTimeout)
	assert.Equal(t, 8*time.Second, cfg.SecondaryTimeout)
	assert.Equal(t, "alertify", cfg.MongoDB)
	assert.Equal(t, time.Hour, cfg.WeatherCacheTTL)
	assert.Equal(t, 20*time.Second, cfg.GeminiTimeout)
	assert.Empty(t, cfg.FirebaseProjectID)
	assert.Empty(t, cfg.MongoURI)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("DATA_DIR", "/tmp/alertify")
	t.Setenv("JWT_SECRET", "custom-secret")
	t.Setenv("JWT_EXPIRATION", "1h")
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("WEATHER_PRIMARY_TIMEOUT", "10s")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB", "weather")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, "/tmp/alertify", cfg.DataDir)
	assert.Equal(t, "custom-secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTExpiration)
	assert.Equal(t, "ow-key", cfg.OpenWeatherAPIKey)
	assert.Equal(t, 10*time.Second, cfg.PrimaryTimeout)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "weather", cfg.MongoDB)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestGetDuration_PlainIntegerIsSeconds(t *testing.T) {
	t.Setenv("WEATHER_PRIMARY_TIMEOUT", "30")

	cfg := Load()
	assert.Equal(t, 30*time.Second, cfg.PrimaryTimeout)
}

func TestGetDuration_InvalidFallsBackToDefault(t *testing.T) {
	t.Setenv("WEATHER_PRIMARY_TIMEOUT", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 25*time.Second, cfg.PrimaryTimeout)
}
