package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/alertify/backend/internal/middleware"
	"github.com/alertify/backend/internal/models"
	"github.com/alertify/backend/internal/observability"
	"github.com/alertify/backend/internal/services"
)

type FeedbackHandler struct {
	feedbackService *services.FeedbackService
	metrics         *observability.Metrics
}

func NewFeedbackHandler(feedbackService *services.FeedbackService, metrics *observability.Metrics) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		metrics:         metrics,
	}
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	entry, err := h.feedbackService.Submit(r.Context(), userID, &req)
	if err != nil {
		switch err {
		case services.ErrRateLimited:
			h.countSubmission("rate_limited")
			writeJSON(w, http.StatusTooManyRequests, models.NewErrorResponse("Feedback already submitted in the last 24 hours"))
		case services.ErrUnauthenticated:
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to submit feedback"))
		}
		return
	}

	h.countSubmission("accepted")
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(entry))
}

func (h *FeedbackHandler) countSubmission(outcome string) {
	if h.metrics == nil {
		return
	}
	h.metrics.FeedbackSubmissions.WithLabelValues(outcome).Inc()
}

func (h *FeedbackHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	entries, err := h.feedbackService.ListRecent(r.Context(), 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list feedback"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(entries))
}
