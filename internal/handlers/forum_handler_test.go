package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alertify/backend/internal/middleware"
	"github.com/alertify/backend/internal/models"
	"github.com/alertify/backend/internal/observability"
	"github.com/alertify/backend/internal/services"
)

func newForumRouter(t *testing.T) (*chi.Mux, *services.LedgerService) {
	t.Helper()
	store, err := services.NewFileLedgerStore("")
	require.NoError(t, err)
	svc := services.NewLedgerService(store)
	h := NewForumHandler(svc, observability.NewMetricsForTesting())

	r := chi.NewRouter()
	r.Get("/api/forum/posts", h.ListPosts)
	r.Post("/api/forum/posts", h.CreatePost)
	r.Post("/api/forum/posts/{postId}/like", h.LikePost)
	r.Post("/api/forum/posts/{postId}/star", h.StarPost)
	r.Get("/api/forum/posts/{postId}/comments", h.ListComments)
	r.Post("/api/forum/posts/{postId}/comments", h.CreateComment)
	return r, svc
}

func asUser(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestForumHandler_CreatePost(t *testing.T) {
	r, svc := newForumRouter(t)
	_, err := svc.RegisterProfile(context.Background(), "alice", "Alice", "alice@example.com")
	require.NoError(t, err)

	body := strings.NewReader(`{"content": "Granizo en el centro", "location": "Centro"}`)
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/forum/posts", body), "alice")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestForumHandler_CreatePost_Unauthenticated(t *testing.T) {
	r, _ := newForumRouter(t)

	body := strings.NewReader(`{"content": "hola"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/forum/posts", body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForumHandler_Like_NotFound(t *testing.T) {
	r, svc := newForumRouter(t)
	_, err := svc.RegisterProfile(context.Background(), "bob", "Bob", "bob@example.com")
	require.NoError(t, err)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/forum/posts/missing/like", nil), "bob")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForumHandler_Like_ThenConflict(t *testing.T) {
	r, svc := newForumRouter(t)
	ctx := context.Background()
	_, err := svc.RegisterProfile(ctx, "alice", "Alice", "alice@example.com")
	require.NoError(t, err)
	_, err = svc.RegisterProfile(ctx, "bob", "Bob", "bob@example.com")
	require.NoError(t, err)
	post, err := svc.CreatePost(ctx, "alice", "Lluvia", "")
	require.NoError(t, err)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/forum/posts/"+post.ID+"/like", nil), "bob")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A star from the same user on the same post is still a second action.
	req = asUser(httptest.NewRequest(http.MethodPost, "/api/forum/posts/"+post.ID+"/star", nil), "bob")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestForumHandler_ListPosts(t *testing.T) {
	r, svc := newForumRouter(t)
	ctx := context.Background()
	_, err := svc.RegisterProfile(ctx, "alice", "Alice", "alice@example.com")
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, "alice", "Niebla", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/forum/posts", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
}

func TestForumHandler_Comments(t *testing.T) {
	r, svc := newForumRouter(t)
	ctx := context.Background()
	_, err := svc.RegisterProfile(ctx, "alice", "Alice", "alice@example.com")
	require.NoError(t, err)
	post, err := svc.CreatePost(ctx, "alice", "Vientos", "")
	require.NoError(t, err)

	body := strings.NewReader(`{"body": "confirmo, muy fuerte"}`)
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/forum/posts/"+post.ID+"/comments", body), "alice")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/forum/posts/"+post.ID+"/comments", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
