package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/shortener-go/internal/analytics"
	"github.com/serroba/shortener-go/internal/analytics/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogging(t *testing.T) {
	t.Run("logs created events", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		logging := store.NewLogging(zap.New(core))

		err := logging.SaveURLCreated(context.Background(), &analytics.URLCreatedEvent{
			EventID:     "evt-1",
			Code:        "abc123",
			OriginalURL: "https://example.com/a",
			CreatedAt:   time.Now().UTC(),
		})

		require.NoError(t, err)
		require.Equal(t, 1, logs.Len())

		entry := logs.All()[0]
		assert.Equal(t, "url created", entry.Message)
		assert.Equal(t, "abc123", entry.ContextMap()["code"])
	})

	t.Run("logs accessed events", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		logging := store.NewLogging(zap.New(core))

		err := logging.SaveURLAccessed(context.Background(), &analytics.URLAccessedEvent{
			EventID:    "evt-2",
			Code:       "abc123",
			AccessedAt: time.Now().UTC(),
			Referrer:   "https://referrer.example.com",
		})

		require.NoError(t, err)
		require.Equal(t, 1, logs.Len())

		entry := logs.All()[0]
		assert.Equal(t, "url accessed", entry.Message)
		assert.Equal(t, "https://referrer.example.com", entry.ContextMap()["referrer"])
	})
}
