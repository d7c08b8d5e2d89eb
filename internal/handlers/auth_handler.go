package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alertify/backend/internal/middleware"
	"github.com/alertify/backend/internal/models"
	"github.com/alertify/backend/internal/services"
)

type AuthHandler struct {
	userService   *services.UserService
	ledgerService *services.LedgerService
	jwtSecret     string
	jwtExpiration time.Duration
	demoSecret    string
}

func NewAuthHandler(userService *services.UserService, ledgerService *services.LedgerService, jwtSecret string, jwtExpiration time.Duration, demoSecret string) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		ledgerService: ledgerService,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		demoSecret:    demoSecret,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	cred, err := h.userService.Login(&req)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid user or password"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Login failed"))
		return
	}

	// A credential without a forum profile means user creation failed
	// partway through. Recreate the profile here so the account is not
	// locked out of posting forever.
	if _, err := h.ledgerService.GetProfile(r.Context(), cred.UID); err == services.ErrUserNotFound {
		if _, err := h.ledgerService.RegisterProfile(r.Context(), cred.UID, cred.Name, cred.User); err != nil {
			log.Printf("[auth] failed to restore profile for %s: %v", cred.UID, err)
		}
	}

	token, err := h.generateToken(cred.UID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate token"))
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		OK:    true,
		User:  models.LoginUser{User: cred.User, Name: cred.Name},
		Token: token,
	})
}

// CreateUser provisions demo accounts. It is guarded by a shared secret
// header rather than JWT so it can be called before any account exists.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("x-demo-secret") != h.demoSecret {
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Forbidden"))
		return
	}

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	cred, err := h.userService.Register(&req)
	if err != nil {
		if err == services.ErrUserExists {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("User already exists"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create user"))
		return
	}

	if _, err := h.ledgerService.RegisterProfile(r.Context(), cred.UID, cred.Name, cred.User); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.LoginUser{
		User: cred.User,
		Name: cred.Name,
	}))
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	profile, err := h.ledgerService.GetProfile(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]interface{}{
		"profile": profile,
		"tier":    services.Tier(profile.Stars),
	}))
}

func (h *AuthHandler) generateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(h.jwtExpiration).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
