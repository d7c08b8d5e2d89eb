package models

import "time"

// WeatherSource identifies which provider produced a snapshot.
type WeatherSource string

const (
	SourceFusion    WeatherSource = "fusion"
	SourceLocal     WeatherSource = "local"
	SourceSynthetic WeatherSource = "synthetic"
)

// CurrentWeather holds normalized current conditions. Wind is km/h,
// visibility km, pressure hPa. The *Estimated flags mark fields the
// aggregator derived from temperature rather than received from a provider.
type CurrentWeather struct {
	Temperature  float64 `json:"temperature"`
	FeelsLike    float64 `json:"feelsLike"`
	Humidity     int     `json:"humidity"`
	WindSpeedKmh float64 `json:"windSpeed"`
	VisibilityKm float64 `json:"visibility"`
	PressureHpa  float64 `json:"pressure"`
	UVIndex      float64 `json:"uvIndex"`
	Description  string  `json:"description"`
	Icon         string  `json:"icon"`

	VisibilityEstimated bool `json:"visibilityEstimated,omitempty"`
	PressureEstimated   bool `json:"pressureEstimated,omitempty"`
	UVIndexEstimated    bool `json:"uvIndexEstimated,omitempty"`
}

// DailyForecast is one entry of the short-term forecast (up to 5 days).
type DailyForecast struct {
	Date            time.Time `json:"date"`
	High            float64   `json:"high"`
	Low             float64   `json:"low"`
	Description     string    `json:"description"`
	Icon            string    `json:"icon"`
	PrecipitationMm float64   `json:"precipitation"`
	Humidity        int       `json:"humidity"`
	WindSpeedKmh    float64   `json:"windSpeed"`
}

// WeatherSnapshot is the shape returned by GET /weather. Never persisted
// beyond a single request (aside from the optional short-lived cache).
type WeatherSnapshot struct {
	Current  CurrentWeather  `json:"current"`
	Forecast []DailyForecast `json:"forecast"`
	Source   WeatherSource   `json:"source"`
}
