package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/shortener-go/internal/analytics"
	"github.com/serroba/shortener-go/internal/messaging"
	"github.com/serroba/shortener-go/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service            *shortener.Service
	validator          *shortener.Validator
	baseURL            string
	publishURLCreated  messaging.Publish[analytics.URLCreatedEvent]
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent]
	logger             *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	service *shortener.Service,
	validator *shortener.Validator,
	baseURL string,
	publishURLCreated messaging.Publish[analytics.URLCreatedEvent],
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		service:            service,
		validator:          validator,
		baseURL:            baseURL,
		publishURLCreated:  publishURLCreated,
		publishURLAccessed: publishURLAccessed,
		logger:             logger,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata for analytics.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// Shorten validates the submitted URL and allocates a short code for it.
// Re-submitting an already shortened URL returns its existing code.
func (h *URLHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	if err := h.validator.ValidateURL(req.Body.URL); err != nil {
		var vErr *shortener.ValidationError
		if errors.As(err, &vErr) {
			return nil, huma.Error400BadRequest(vErr.Reason)
		}

		return nil, huma.Error400BadRequest("invalid url")
	}

	mapping, created, err := h.service.Shorten(ctx, req.Body.URL)
	if err != nil {
		h.logger.Error("failed to shorten url", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to shorten url")
	}

	if created {
		meta := RequestMetaFromContext(ctx)
		event := &analytics.URLCreatedEvent{
			EventID:     uuid.NewString(),
			Code:        string(mapping.Code),
			OriginalURL: mapping.OriginalURL,
			CreatedAt:   mapping.CreatedAt,
			ClientIP:    meta.ClientIP,
			UserAgent:   meta.UserAgent,
		}

		if err := h.publishURLCreated(event); err != nil {
			h.logger.Error("failed to publish url created event",
				zap.String("code", event.Code),
				zap.Error(err),
			)
		}
	}

	resp := &ShortenResponse{}
	resp.Body.ShortCode = string(mapping.Code)
	resp.Body.ShortURL = fmt.Sprintf("%s/%s", h.baseURL, mapping.Code)

	return resp, nil
}

// Redirect resolves a short code and issues a 307 redirect to the
// original URL.
func (h *URLHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	mapping, err := h.service.Resolve(ctx, req.Code)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short code not found")
		}

		h.logger.Error("failed to resolve short code",
			zap.String("code", req.Code),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to resolve short code")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLAccessedEvent{
		EventID:    uuid.NewString(),
		Code:       string(mapping.Code),
		AccessedAt: time.Now().UTC(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := h.publishURLAccessed(event); err != nil {
		h.logger.Error("failed to publish url accessed event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return &RedirectResponse{
		Status:   http.StatusTemporaryRedirect,
		Location: mapping.OriginalURL,
	}, nil
}
