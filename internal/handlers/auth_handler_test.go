package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alertify/backend/internal/models"
	"github.com/alertify/backend/internal/services"
)

const testDemoSecret = "demo-secret-token"

func newAuthRouter(t *testing.T) (*chi.Mux, *services.UserService) {
	t.Helper()
	userService, err := services.NewUserService("")
	require.NoError(t, err)
	store, err := services.NewFileLedgerStore("")
	require.NoError(t, err)
	ledgerService := services.NewLedgerService(store)

	h := NewAuthHandler(userService, ledgerService, "test-secret", time.Hour, testDemoSecret)

	r := chi.NewRouter()
	r.Post("/api/login", h.Login)
	r.Post("/api/create-user", h.CreateUser)
	return r, userService
}

func TestAuthHandler_CreateUser_RequiresDemoSecret(t *testing.T) {
	r, _ := newAuthRouter(t)

	body := strings.NewReader(`{"user": "alice", "pass": "secret123", "name": "Alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/create-user", body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthHandler_CreateUser_ThenLogin(t *testing.T) {
	r, _ := newAuthRouter(t)

	body := strings.NewReader(`{"user": "alice", "pass": "secret123", "name": "Alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/create-user", body)
	req.Header.Set("x-demo-secret", testDemoSecret)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body = strings.NewReader(`{"user": "alice", "pass": "secret123"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LoginResponse
	require.NoError(t, decodeJSON(rec, &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "alice", resp.User.User)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	r, userService := newAuthRouter(t)
	_, err := userService.Register(&models.CreateUserRequest{User: "alice", Pass: "secret123"})
	require.NoError(t, err)

	body := strings.NewReader(`{"user": "alice", "pass": "wrong-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Login_ValidationErrors(t *testing.T) {
	r, _ := newAuthRouter(t)

	body := strings.NewReader(`{"user": "", "pass": ""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// A credential that exists without a forum profile (user creation died
// between the two writes) gets its profile recreated on the next login.
func TestAuthHandler_Login_RestoresMissingProfile(t *testing.T) {
	userService, err := services.NewUserService("")
	require.NoError(t, err)
	store, err := services.NewFileLedgerStore("")
	require.NoError(t, err)
	ledgerService := services.NewLedgerService(store)
	h := NewAuthHandler(userService, ledgerService, "test-secret", time.Hour, testDemoSecret)

	cred, err := userService.Register(&models.CreateUserRequest{User: "alice", Pass: "secret123", Name: "Alice"})
	require.NoError(t, err)
	_, err = ledgerService.GetProfile(context.Background(), cred.UID)
	require.ErrorIs(t, err, services.ErrUserNotFound)

	body := strings.NewReader(`{"user": "alice", "pass": "secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	profile, err := ledgerService.GetProfile(context.Background(), cred.UID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.DisplayName)
}

func TestAuthHandler_CreateUser_Duplicate(t *testing.T) {
	r, _ := newAuthRouter(t)

	for i := 0; i < 2; i++ {
		body := strings.NewReader(`{"user": "alice", "pass": "secret123"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/create-user", body)
		req.Header.Set("x-demo-secret", testDemoSecret)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if i == 0 {
			require.Equal(t, http.StatusOK, rec.Code)
		} else {
			assert.Equal(t, http.StatusConflict, rec.Code)
		}
	}
}
