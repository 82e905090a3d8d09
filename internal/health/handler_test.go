package health_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/shortener-go/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChecker struct {
	err error
}

func (m *mockChecker) Ping(_ context.Context) error {
	return m.err
}

func TestHandler_Check(t *testing.T) {
	t.Run("healthy with no dependencies configured", func(t *testing.T) {
		handler := health.NewHandler(nil, nil)

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "healthy", resp.Body.Status)
		assert.Empty(t, resp.Body.Postgres)
		assert.Empty(t, resp.Body.Redis)
	})

	t.Run("healthy when all dependencies respond", func(t *testing.T) {
		handler := health.NewHandler(&mockChecker{}, &mockChecker{})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "healthy", resp.Body.Status)
		assert.Equal(t, "healthy", resp.Body.Postgres)
		assert.Equal(t, "healthy", resp.Body.Redis)
	})

	t.Run("degraded when postgres is down", func(t *testing.T) {
		handler := health.NewHandler(&mockChecker{err: errors.New("connection refused")}, &mockChecker{})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Postgres)
		assert.Equal(t, "healthy", resp.Body.Redis)
	})

	t.Run("degraded when redis is down", func(t *testing.T) {
		handler := health.NewHandler(&mockChecker{}, &mockChecker{err: errors.New("connection refused")})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "healthy", resp.Body.Postgres)
		assert.Equal(t, "unhealthy", resp.Body.Redis)
	})
}
