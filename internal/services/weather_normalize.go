package services

import (
	"math"
	"strings"

	"github.com/alertify/backend/internal/models"
)

// Wind speeds below this magnitude are assumed to be m/s and converted to
// km/h. Surface readings above it are already km/h in every provider this
// system talks to.
const windUnitThreshold = 15

// Estimation anchors: when a provider supplies neither the field nor a
// supplementary value, the aggregator interpolates linearly from the felt
// temperature between these fixed points, clamped to the range.
var (
	visibilityAnchors = anchors{tempMin: 0, valueMin: 6, tempMax: 35, valueMax: 10}    // km
	pressureAnchors   = anchors{tempMin: 0, valueMin: 1024, tempMax: 35, valueMax: 1008} // hPa
	uvAnchors         = anchors{tempMin: 10, valueMin: 1, tempMax: 35, valueMax: 11}
)

type anchors struct {
	tempMin, valueMin float64
	tempMax, valueMax float64
}

func (a anchors) estimate(temp float64) float64 {
	if temp <= a.tempMin {
		return a.valueMin
	}
	if temp >= a.tempMax {
		return a.valueMax
	}
	return a.valueMin + (temp-a.tempMin)*(a.valueMax-a.valueMin)/(a.tempMax-a.tempMin)
}

// normalizeWindSpeed converts an assumed-m/s reading to km/h. Values at or
// above the threshold pass through unchanged.
func normalizeWindSpeed(v float64) float64 {
	if v < windUnitThreshold {
		return round1(v * 3.6)
	}
	return v
}

// normalizeVisibility converts an assumed-meters reading to kilometers.
func normalizeVisibility(v float64) float64 {
	if v > 1000 {
		return round1(v / 1000)
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// finalizeSnapshot turns a raw observation into the response shape: wind and
// visibility units normalized, and any missing visibility/pressure/uvIndex
// estimated from the felt temperature and flagged as such. The result never
// has holes in those three fields.
func finalizeSnapshot(obs *Observation, source models.WeatherSource) *models.WeatherSnapshot {
	cur := models.CurrentWeather{
		Description: obs.Description,
		Icon:        obs.Icon,
	}

	if obs.Temperature != nil {
		cur.Temperature = round1(*obs.Temperature)
	}
	if obs.FeelsLike != nil {
		cur.FeelsLike = round1(*obs.FeelsLike)
	} else {
		cur.FeelsLike = cur.Temperature
	}
	if obs.Humidity != nil {
		cur.Humidity = *obs.Humidity
	}
	if obs.WindSpeed != nil {
		cur.WindSpeedKmh = normalizeWindSpeed(*obs.WindSpeed)
	}

	// Estimation reference: felt temperature when present, else the dry
	// reading.
	ref := cur.FeelsLike
	if obs.FeelsLike == nil && obs.Temperature != nil {
		ref = cur.Temperature
	}

	if obs.Visibility != nil {
		cur.VisibilityKm = normalizeVisibility(*obs.Visibility)
	} else {
		cur.VisibilityKm = round1(visibilityAnchors.estimate(ref))
		cur.VisibilityEstimated = true
	}
	if obs.Pressure != nil {
		cur.PressureHpa = *obs.Pressure
	} else {
		cur.PressureHpa = round1(pressureAnchors.estimate(ref))
		cur.PressureEstimated = true
	}
	if obs.UVIndex != nil {
		cur.UVIndex = *obs.UVIndex
	} else {
		cur.UVIndex = round1(uvAnchors.estimate(ref))
		cur.UVIndexEstimated = true
	}

	forecast := obs.Forecast
	if len(forecast) > 5 {
		forecast = forecast[:5]
	}
	for i := range forecast {
		forecast[i].WindSpeedKmh = normalizeWindSpeed(forecast[i].WindSpeedKmh)
	}

	return &models.WeatherSnapshot{
		Current:  cur,
		Forecast: forecast,
		Source:   source,
	}
}

// mapIcon maps a provider condition string to the icon vocabulary the client
// understands.
func mapIcon(main string) string {
	m := strings.ToLower(main)
	switch {
	case strings.Contains(m, "clear"):
		return "sunny"
	case strings.Contains(m, "cloud"):
		return "partly-cloudy"
	case strings.Contains(m, "rain"), strings.Contains(m, "drizzle"):
		return "rainy"
	case strings.Contains(m, "storm"), strings.Contains(m, "thunder"):
		return "stormy"
	default:
		return "cloudy"
	}
}
