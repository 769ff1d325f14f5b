package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvalfre/urlshortener/internal/handlers"
	"github.com/dvalfre/urlshortener/internal/middleware"
)

type metaOutput struct {
	Body struct {
		ClientIP  string `json:"clientIp"`
		UserAgent string `json:"userAgent"`
		Referrer  string `json:"referrer"`
	}
}

func setupMetaAPI(t *testing.T) *chi.Mux {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))

	huma.Get(api, "/meta", func(ctx context.Context, _ *struct{}) (*metaOutput, error) {
		meta := handlers.RequestMetaFromContext(ctx)

		out := &metaOutput{}
		out.Body.ClientIP = meta.ClientIP
		out.Body.UserAgent = meta.UserAgent
		out.Body.Referrer = meta.Referrer

		return out, nil
	})

	return router
}

func TestRequestMeta(t *testing.T) {
	t.Run("captures user-agent and referrer", func(t *testing.T) {
		router := setupMetaAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/meta", nil)
		req.Header.Set("User-Agent", "TestAgent/1.0")
		req.Header.Set("Referer", "https://example.com")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userAgent":"TestAgent/1.0"`)
		assert.Contains(t, w.Body.String(), `"referrer":"https://example.com"`)
	})

	t.Run("prefers first X-Forwarded-For entry", func(t *testing.T) {
		router := setupMetaAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/meta", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1, 172.16.0.1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"clientIp":"203.0.113.7"`)
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		router := setupMetaAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/meta", nil)
		req.Header.Set("X-Real-IP", "203.0.113.9")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"clientIp":"203.0.113.9"`)
	})

	t.Run("falls back to the host address", func(t *testing.T) {
		router := setupMetaAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/meta", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"clientIp":"example.com"`)
	})
}
