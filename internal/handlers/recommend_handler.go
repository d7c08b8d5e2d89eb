package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/alertify/backend/internal/models"
	"github.com/alertify/backend/internal/services"
)

type RecommendHandler struct {
	recommendService *services.RecommendService
}

func NewRecommendHandler(recommendService *services.RecommendService) *RecommendHandler {
	return &RecommendHandler{
		recommendService: recommendService,
	}
}

type recommendRequest struct {
	Prompt string `json:"prompt"`
}

func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Prompt is required"))
		return
	}

	rec := h.recommendService.Recommend(r.Context(), req.Prompt)
	writeJSON(w, http.StatusOK, rec)
}
