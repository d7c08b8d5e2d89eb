package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alertify/backend/internal/middleware"
	"github.com/alertify/backend/internal/models"
	"github.com/alertify/backend/internal/observability"
	"github.com/alertify/backend/internal/services"
)

type ForumHandler struct {
	ledgerService *services.LedgerService
	metrics       *observability.Metrics
}

func NewForumHandler(ledgerService *services.LedgerService, metrics *observability.Metrics) *ForumHandler {
	return &ForumHandler{
		ledgerService: ledgerService,
		metrics:       metrics,
	}
}

func (h *ForumHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid limit"))
			return
		}
		limit = v
	}

	posts, err := h.ledgerService.ListPosts(r.Context(), location, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list posts"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(posts))
}

func (h *ForumHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	post, err := h.ledgerService.CreatePost(r.Context(), userID, req.Content, req.Location)
	if err != nil {
		switch err {
		case services.ErrNotRegistered:
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Only registered users can post"))
		case services.ErrEmptyContent:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Content is required"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create post"))
		}
		return
	}

	if h.metrics != nil {
		h.metrics.PostsCreated.Inc()
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(post))
}

func (h *ForumHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, models.EngagementLike)
}

func (h *ForumHandler) StarPost(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, models.EngagementStar)
}

func (h *ForumHandler) engage(w http.ResponseWriter, r *http.Request, kind models.EngagementKind) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	postID := chi.URLParam(r, "postId")

	result, err := h.ledgerService.ApplyEngagement(r.Context(), postID, userID, kind)
	if err != nil {
		switch err {
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		case services.ErrAlreadyActed:
			h.countEngagement(kind, "rejected")
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Already acted on this post"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to record engagement"))
		}
		return
	}

	h.countEngagement(kind, "applied")
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(result))
}

func (h *ForumHandler) countEngagement(kind models.EngagementKind, outcome string) {
	if h.metrics == nil {
		return
	}
	h.metrics.EngagementActions.WithLabelValues(string(kind), outcome).Inc()
}

func (h *ForumHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")

	comments, err := h.ledgerService.ListComments(r.Context(), postID)
	if err != nil {
		if err == services.ErrPostNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list comments"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(comments))
}

func (h *ForumHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	postID := chi.URLParam(r, "postId")

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	comment, err := h.ledgerService.AddComment(r.Context(), postID, userID, req.Body)
	if err != nil {
		switch err {
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		case services.ErrEmptyContent:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Comment body is required"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to add comment"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(comment))
}
