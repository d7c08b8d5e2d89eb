package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alertify/backend/internal/middleware"
	"github.com/alertify/backend/internal/models"
	"github.com/alertify/backend/internal/services"
)

type ReminderHandler struct {
	reminderService *services.ReminderService
}

func NewReminderHandler(reminderService *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
	}
}

// ListReminders returns all reminders for the user, or only the upcoming
// window when ?upcoming=<days> is given.
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	if raw := r.URL.Query().Get("upcoming"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid upcoming window"))
			return
		}
		reminders := h.reminderService.ListUpcoming(userID, time.Now().UTC(), days)
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(reminders))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(h.reminderService.List(userID)))
}

func (h *ReminderHandler) AddReminder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.AddReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	reminder, err := h.reminderService.Add(userID, &req)
	if err != nil {
		if err == services.ErrEmptyReminderText {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Reminder text is required"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to add reminder"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(reminder))
}

func (h *ReminderHandler) ToggleReminder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.reminderService.ToggleCompleted(userID, id); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to toggle reminder"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(nil))
}

func (h *ReminderHandler) RemoveReminder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.reminderService.Remove(userID, id); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to remove reminder"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(nil))
}
