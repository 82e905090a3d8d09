package store

import (
	"context"

	"github.com/serroba/shortener-go/internal/analytics"
	"go.uber.org/zap"
)

// Logging is an analytics.Store that only logs events. Used when no
// analytics database is configured.
type Logging struct {
	logger *zap.Logger
}

// NewLogging creates a new logging analytics store.
func NewLogging(logger *zap.Logger) *Logging {
	return &Logging{logger: logger}
}

func (l *Logging) SaveURLCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	l.logger.Info("url created",
		zap.String("code", event.Code),
		zap.String("original_url", event.OriginalURL),
		zap.Time("created_at", event.CreatedAt),
	)

	return nil
}

func (l *Logging) SaveURLAccessed(_ context.Context, event *analytics.URLAccessedEvent) error {
	l.logger.Info("url accessed",
		zap.String("code", event.Code),
		zap.Time("accessed_at", event.AccessedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

// Compile-time check.
var _ analytics.Store = (*Logging)(nil)
