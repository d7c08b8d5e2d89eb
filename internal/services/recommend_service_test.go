package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_NoKeyUsesLocalGenerator(t *testing.T) {
	svc := NewRecommendService("", time.Second)

	rec := svc.Recommend(context.Background(), "Soleado, entre 29 y 33 grados, UV 9")

	assert.Equal(t, "local", rec.Provider)
	assert.True(t, strings.HasSuffix(rec.Text, signOff))
}

func TestRecommend_UpstreamFailureFallsBackToLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := NewRecommendService("test-key", time.Second)
	svc.endpoint = srv.URL

	rec := svc.Recommend(context.Background(), "Lluvia ligera, 18 grados")

	assert.Equal(t, "local", rec.Provider)
	assert.True(t, strings.HasSuffix(rec.Text, signOff))
}

func TestRecommend_UpstreamSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Lleva abrigo. ` + signOff + `"}]}}]}`))
	}))
	defer srv.Close()

	svc := NewRecommendService("test-key", time.Second)
	svc.endpoint = srv.URL

	rec := svc.Recommend(context.Background(), "Frío, 8 grados")

	assert.Equal(t, "google", rec.Provider)
	assert.Contains(t, rec.Text, "Lleva abrigo")
}

func TestLocalRecommendation_Heuristics(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"rain", "Lluvia moderada, 19°C", "impermeable"},
		{"storm", "Tormenta eléctrica, 22°C", "impermeable"},
		{"hot and sunny", "Soleado, entre 28 y 33°C", "camiseta"},
		{"cold", "Nublado, entre 5 y 11°C", "abrigadora"},
		{"mild default", "Parcialmente nublado, 21°C", "prenda ligera"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := localRecommendation(tt.prompt)
			assert.Contains(t, strings.ToLower(got), tt.want)
			assert.True(t, strings.HasSuffix(got, signOff))
		})
	}
}

func TestLocalRecommendation_HighUVAddsSunscreen(t *testing.T) {
	got := localRecommendation("Soleado, 25°C, UV 9")
	assert.Contains(t, got, "protector solar")
}

func TestClampWords(t *testing.T) {
	short := "una recomendación corta"
	assert.Equal(t, short, clampWords(short, 28))

	long := strings.Repeat("palabra ", 40)
	clamped := clampWords(long, 28)
	assert.Len(t, strings.Fields(clamped), 28)
}

func TestRecommend_NeverFails(t *testing.T) {
	svc := NewRecommendService("", time.Second)

	rec := svc.Recommend(context.Background(), "")
	require.NotNil(t, rec)
	assert.NotEmpty(t, rec.Text)
}
