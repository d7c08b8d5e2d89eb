package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alertify/backend/internal/services"
)

func TestRecommendHandler_LocalProvider(t *testing.T) {
	h := NewRecommendHandler(services.NewRecommendService("", time.Second))

	body := strings.NewReader(`{"prompt": "Soleado, entre 28 y 32 grados, UV 8"}`)
	req := httptest.NewRequest(http.MethodPost, "/gemini-api", body)
	rec := httptest.NewRecorder()
	h.Recommend(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp services.Recommendation
	require.NoError(t, decodeJSON(rec, &resp))
	assert.Equal(t, "local", resp.Provider)
	assert.NotEmpty(t, resp.Text)
}

func TestRecommendHandler_EmptyPrompt(t *testing.T) {
	h := NewRecommendHandler(services.NewRecommendService("", time.Second))

	body := strings.NewReader(`{"prompt": "   "}`)
	req := httptest.NewRequest(http.MethodPost, "/gemini-api", body)
	rec := httptest.NewRecorder()
	h.Recommend(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendHandler_BadBody(t *testing.T) {
	h := NewRecommendHandler(services.NewRecommendService("", time.Second))

	req := httptest.NewRequest(http.MethodPost, "/gemini-api", strings.NewReader("not-json"))
	rec := httptest.NewRecorder()
	h.Recommend(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
