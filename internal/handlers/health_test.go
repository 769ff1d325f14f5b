package handlers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvalfre/urlshortener/internal/handlers"
)

type mockChecker struct {
	err error
}

func (m *mockChecker) Ping(_ context.Context) error {
	return m.err
}

func TestHealthCheck(t *testing.T) {
	t.Run("reports ok when all backends respond", func(t *testing.T) {
		handler := handlers.NewHealthHandler(&mockChecker{}, &mockChecker{})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Equal(t, "healthy", resp.Body.Redis)
		assert.Equal(t, "healthy", resp.Body.Postgres)
	})

	t.Run("degrades when redis is down", func(t *testing.T) {
		handler := handlers.NewHealthHandler(&mockChecker{err: errors.New("ping error")}, &mockChecker{})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Redis)
		assert.Equal(t, "healthy", resp.Body.Postgres)
	})

	t.Run("degrades when postgres is down", func(t *testing.T) {
		handler := handlers.NewHealthHandler(&mockChecker{}, &mockChecker{err: errors.New("ping error")})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Postgres)
	})

	t.Run("marks unconfigured backends disabled", func(t *testing.T) {
		handler := handlers.NewHealthHandler(&mockChecker{}, nil)

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Equal(t, "disabled", resp.Body.Postgres)
	})
}
