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

// OpenWeatherClient is the primary, model-backed forecast provider (One Call
// API). It carries its own bounded timeout; a slow or failing upstream is
// the aggregator's problem, not the caller's.
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenWeatherClient(apiKey, baseURL string, timeout time.Duration) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *OpenWeatherClient) Name() string { return "fusion" }

type oneCallResponse struct {
	Current struct {
		Temp       *float64 `json:"temp"`
		FeelsLike  *float64 `json:"feels_like"`
		Humidity   *int     `json:"humidity"`
		WindSpeed  *float64 `json:"wind_speed"`
		Visibility *float64 `json:"visibility"`
		Pressure   *float64 `json:"pressure"`
		UVI        *float64 `json:"uvi"`
		Weather    []oneCallCondition `json:"weather"`
	} `json:"current"`
	Daily []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Weather   []oneCallCondition `json:"weather"`
		Rain      float64            `json:"rain"`
		Humidity  int                `json:"humidity"`
		WindSpeed float64            `json:"wind_speed"`
	} `json:"daily"`
}

type oneCallCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

func (c *OpenWeatherClient) Fetch(ctx context.Context, lat, lng float64) (*Observation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweather: no API key configured")
	}

	params := url.Values{
		"lat":     {fmt.Sprintf("%f", lat)},
		"lon":     {fmt.Sprintf("%f", lng)},
		"units":   {"metric"},
		"exclude": {"minutely,hourly,alerts"},
		"appid":   {c.apiKey},
	}
	u := c.baseURL + "/onecall?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openweather: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openweather: upstream status %d", resp.StatusCode)
	}

	var raw oneCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("openweather: decode: %w", err)
	}

	obs := &Observation{
		Temperature: raw.Current.Temp,
		FeelsLike:   raw.Current.FeelsLike,
		Humidity:    raw.Current.Humidity,
		WindSpeed:   raw.Current.WindSpeed,
		Visibility:  raw.Current.Visibility,
		Pressure:    raw.Current.Pressure,
		UVIndex:     raw.Current.UVI,
	}
	if len(raw.Current.Weather) > 0 {
		obs.Description = raw.Current.Weather[0].Description
		obs.Icon = mapIcon(raw.Current.Weather[0].Main)
	}

	// Days 1..5 of the daily array; day 0 is today.
	daily := raw.Daily
	if len(daily) > 0 {
		daily = daily[1:]
	}
	if len(daily) > 5 {
		daily = daily[:5]
	}
	for _, d := range daily {
		f := models.DailyForecast{
			Date:            time.Unix(d.Dt, 0).UTC(),
			High:            d.Temp.Max,
			Low:             d.Temp.Min,
			PrecipitationMm: d.Rain,
			Humidity:        d.Humidity,
			WindSpeedKmh:    d.WindSpeed,
		}
		if len(d.Weather) > 0 {
			f.Description = d.Weather[0].Description
			f.Icon = mapIcon(d.Weather[0].Main)
		}
		obs.Forecast = append(obs.Forecast, f)
	}

	return obs, nil
}
