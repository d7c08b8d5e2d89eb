package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alertify/backend/internal/models"
)

func TestNormalizeWindSpeed(t *testing.T) {
	// Below the threshold the value is assumed m/s and converted.
	assert.Equal(t, 18.0, normalizeWindSpeed(5))
	assert.Equal(t, 50.4, normalizeWindSpeed(14))
	// At or above the threshold it is already km/h.
	assert.Equal(t, 15.0, normalizeWindSpeed(15))
	assert.Equal(t, 20.0, normalizeWindSpeed(20))
}

func TestNormalizeVisibility(t *testing.T) {
	assert.Equal(t, 10.0, normalizeVisibility(10000))
	assert.Equal(t, 8.5, normalizeVisibility(8500))
	// Small values are already km.
	assert.Equal(t, 8.0, normalizeVisibility(8))
	assert.Equal(t, 1000.0, normalizeVisibility(1000))
}

func TestFinalizeSnapshot_EstimatesMissingFields(t *testing.T) {
	obs := &Observation{
		Temperature: f64(20),
		FeelsLike:   f64(17.5),
		Humidity:    intp(70),
		WindSpeed:   f64(10),
		Description: "Nublado",
		Icon:        "cloudy",
	}

	snap := finalizeSnapshot(obs, models.SourceLocal)

	assert.True(t, snap.Current.VisibilityEstimated)
	assert.True(t, snap.Current.PressureEstimated)
	assert.True(t, snap.Current.UVIndexEstimated)
	assert.Equal(t, 8.0, snap.Current.VisibilityKm)     // 6 + 17.5/35*4
	assert.Equal(t, 1016.0, snap.Current.PressureHpa)   // 1024 - 17.5/35*16
	assert.Equal(t, 4.0, snap.Current.UVIndex)          // 1 + 7.5/25*10
	assert.Equal(t, 36.0, snap.Current.WindSpeedKmh)    // 10 m/s
	assert.Equal(t, models.SourceLocal, snap.Source)
}

func TestFinalizeSnapshot_EstimationClampsToAnchors(t *testing.T) {
	cold := finalizeSnapshot(&Observation{Temperature: f64(-10)}, models.SourceLocal)
	assert.Equal(t, 6.0, cold.Current.VisibilityKm)
	assert.Equal(t, 1024.0, cold.Current.PressureHpa)
	assert.Equal(t, 1.0, cold.Current.UVIndex)

	hot := finalizeSnapshot(&Observation{Temperature: f64(45)}, models.SourceLocal)
	assert.Equal(t, 10.0, hot.Current.VisibilityKm)
	assert.Equal(t, 1008.0, hot.Current.PressureHpa)
	assert.Equal(t, 11.0, hot.Current.UVIndex)
}

func TestFinalizeSnapshot_UsesTemperatureWhenNoFeelsLike(t *testing.T) {
	snap := finalizeSnapshot(&Observation{Temperature: f64(35)}, models.SourceFusion)

	assert.Equal(t, 35.0, snap.Current.FeelsLike)
	assert.Equal(t, 10.0, snap.Current.VisibilityKm)
	assert.Equal(t, 11.0, snap.Current.UVIndex)
}

func TestFinalizeSnapshot_PresentFieldsNotFlagged(t *testing.T) {
	obs := &Observation{
		Temperature: f64(22),
		Visibility:  f64(7000),
		Pressure:    f64(1010),
		UVIndex:     f64(3),
	}

	snap := finalizeSnapshot(obs, models.SourceFusion)

	assert.False(t, snap.Current.VisibilityEstimated)
	assert.False(t, snap.Current.PressureEstimated)
	assert.False(t, snap.Current.UVIndexEstimated)
	assert.Equal(t, 7.0, snap.Current.VisibilityKm)
	assert.Equal(t, 1010.0, snap.Current.PressureHpa)
}

func TestFinalizeSnapshot_ForecastCappedAndNormalized(t *testing.T) {
	obs := &Observation{Temperature: f64(20)}
	for i := 0; i < 8; i++ {
		obs.Forecast = append(obs.Forecast, models.DailyForecast{WindSpeedKmh: 5})
	}

	snap := finalizeSnapshot(obs, models.SourceFusion)

	assert.Len(t, snap.Forecast, 5)
	for _, d := range snap.Forecast {
		assert.Equal(t, 18.0, d.WindSpeedKmh)
	}
}

func TestMapIcon(t *testing.T) {
	assert.Equal(t, "sunny", mapIcon("Clear"))
	assert.Equal(t, "partly-cloudy", mapIcon("Clouds"))
	assert.Equal(t, "rainy", mapIcon("Rain"))
	assert.Equal(t, "rainy", mapIcon("Drizzle"))
	assert.Equal(t, "stormy", mapIcon("Thunderstorm"))
	assert.Equal(t, "cloudy", mapIcon("Haze"))
}
