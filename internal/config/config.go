package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddress string
	DataDir       string

	JWTSecret     string
	JWTExpiration time.Duration
	DemoSecret    string

	// Weather providers
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	WeatherProxyURL    string
	PrimaryTimeout     time.Duration
	SecondaryTimeout   time.Duration

	// Reputation ledger (Firestore). An empty project ID falls back to the
	// file-backed store.
	FirebaseProjectID   string
	FirebaseCredentials string

	// Feedback store (Mongo). An empty URI falls back to the in-memory store.
	MongoURI string
	MongoDB  string

	// Weather snapshot cache (optional)
	RedisAddr       string
	WeatherCacheTTL time.Duration

	// AI recommendation proxy
	GeminiAPIKey  string
	GeminiTimeout time.Duration
}

func Load() *Config {
	return &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		DataDir:       getEnv("DATA_DIR", "./data"),

		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration: getDuration("JWT_EXPIRATION", 24*time.Hour),
		DemoSecret:    getEnv("DEMO_SECRET", "demo-secret-token"),

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/3.0"),
		WeatherProxyURL:    os.Getenv("WEATHER_PROXY_URL"),
		PrimaryTimeout:     getDuration("WEATHER_PRIMARY_TIMEOUT", 25*time.Second),
		SecondaryTimeout:   getDuration("WEATHER_SECONDARY_TIMEOUT", 8*time.Second),

		FirebaseProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS_JSON"),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnv("MONGO_DB", "alertify"),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		WeatherCacheTTL: getDuration("WEATHER_CACHE_TTL", time.Hour),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiTimeout: getDuration("GEMINI_TIMEOUT", 20*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Plain integers are treated as seconds.
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
