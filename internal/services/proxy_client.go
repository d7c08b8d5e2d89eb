package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alertify/backend/internal/models"
)

// WeatherProxyClient is the secondary provider: a local proxy exposing the
// simplified /weather?lat=&lng= shape. Its timeout is shorter than the
// primary's since it sits on the same network.
type WeatherProxyClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewWeatherProxyClient(baseURL string, timeout time.Duration) *WeatherProxyClient {
	return &WeatherProxyClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *WeatherProxyClient) Name() string { return "local" }

type proxyResponse struct {
	Current struct {
		Temperature *float64 `json:"temperature"`
		FeelsLike   *float64 `json:"feelsLike"`
		Humidity    *int     `json:"humidity"`
		WindSpeed   *float64 `json:"windSpeed"`
		Visibility  *float64 `json:"visibility"`
		Pressure    *float64 `json:"pressure"`
		UVIndex     *float64 `json:"uvIndex"`
		Description string   `json:"description"`
		Icon        string   `json:"icon"`
	} `json:"current"`
	Forecast []struct {
		Date          time.Time `json:"date"`
		High          float64   `json:"high"`
		Low           float64   `json:"low"`
		Description   string    `json:"description"`
		Icon          string    `json:"icon"`
		Precipitation float64   `json:"precipitation"`
		Humidity      int       `json:"humidity"`
		WindSpeedMs   float64   `json:"wind_speed_ms"`
	} `json:"forecast"`
}

func (c *WeatherProxyClient) Fetch(ctx context.Context, lat, lng float64) (*Observation, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("weather proxy: no base URL configured")
	}

	params := url.Values{
		"lat": {fmt.Sprintf("%f", lat)},
		"lng": {fmt.Sprintf("%f", lng)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather proxy: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather proxy: upstream status %d", resp.StatusCode)
	}

	var raw proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("weather proxy: decode: %w", err)
	}

	obs := &Observation{
		Temperature: raw.Current.Temperature,
		FeelsLike:   raw.Current.FeelsLike,
		Humidity:    raw.Current.Humidity,
		WindSpeed:   raw.Current.WindSpeed,
		Visibility:  raw.Current.Visibility,
		Pressure:    raw.Current.Pressure,
		UVIndex:     raw.Current.UVIndex,
		Description: raw.Current.Description,
		Icon:        raw.Current.Icon,
	}
	for _, d := range raw.Forecast {
		obs.Forecast = append(obs.Forecast, models.DailyForecast{
			Date:            d.Date,
			High:            d.High,
			Low:             d.Low,
			Description:     d.Description,
			Icon:            d.Icon,
			PrecipitationMm: d.Precipitation,
			Humidity:        d.Humidity,
			WindSpeedKmh:    d.WindSpeedMs,
		})
	}

	return obs, nil
}
