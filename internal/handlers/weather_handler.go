package handlers

import (
	"net/http"

	"github.com/alertify/backend/internal/models"
	"github.com/alertify/backend/internal/services"
)

type WeatherHandler struct {
	weatherService *services.WeatherService
}

func NewWeatherHandler(weatherService *services.WeatherService) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
	}
}

func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	lat, ok := parseCoordinate(r.URL.Query().Get("lat"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing or invalid lat"))
		return
	}
	lng, ok := parseCoordinate(r.URL.Query().Get("lng"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing or invalid lng"))
		return
	}

	snapshot, err := h.weatherService.GetWeather(r.Context(), lat, lng)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Weather data unavailable"))
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
