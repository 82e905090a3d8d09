// Package container wires the application together with samber/do provider
// packages, one per concern.
package container

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortener-go/internal/analytics"
	analyticsstore "github.com/serroba/shortener-go/internal/analytics/store"
	"github.com/serroba/shortener-go/internal/handlers"
	"github.com/serroba/shortener-go/internal/health"
	"github.com/serroba/shortener-go/internal/messaging"
	"github.com/serroba/shortener-go/internal/middleware"
	"github.com/serroba/shortener-go/internal/ratelimit"
	"github.com/serroba/shortener-go/internal/shortener"
	"github.com/serroba/shortener-go/internal/store"
	"github.com/serroba/shortener-go/internal/store/migrations"
	"go.uber.org/zap"
)

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx connection pool and applies migrations.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if options.Migrate {
			if err := migrations.Up(options.DatabaseURL, logger); err != nil {
				return nil, err
			}
		}

		return pgxpool.New(context.Background(), options.DatabaseURL)
	})
}

// RepositoryPackage provides the mapping store and the shortening service.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		options := do.MustInvoke[*Options](i)
		pool := do.MustInvoke[*pgxpool.Pool](i)
		client := do.MustInvoke[*redis.Client](i)

		pg := store.NewPostgresStore(pool)
		ttl := time.Duration(options.CacheTTL) * time.Second

		return store.NewRedisCacheStore(pg, client, ttl), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		repo := do.MustInvoke[shortener.Repository](i)
		logger := do.MustInvoke[*zap.Logger](i)

		generate, err := shortener.NewGenerator()
		if err != nil {
			return nil, err
		}

		return shortener.NewService(repo, generate, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Validator, error) {
		options := do.MustInvoke[*Options](i)

		return shortener.NewValidator(options.ResolvedBlockedDomains()), nil
	})
}

// RateLimitPackage provides the sliding-window rate limiter.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.Limiter, error) {
		client := do.MustInvoke[*redis.Client](i)

		limits := []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 120},
			{Window: time.Hour, Max: 2000},
		}

		return ratelimit.NewLimiter(store.NewRateLimitRedisStore(client), limits), nil
	})
}

// PublisherGroupPackage provides the analytics event publishers over Redis
// streams.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client,
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.URLCreatedEvent](group.Publisher(), analytics.TopicURLCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLAccessedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.URLAccessedEvent](group.Publisher(), analytics.TopicURLAccessed), nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group for the
// consumer binary.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if options.DatabaseURL == "" {
			return analyticsstore.NewLogging(logger), nil
		}

		pool := do.MustInvoke[*pgxpool.Pool](i)

		return analyticsstore.NewPostgres(pool), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		eventStore := do.MustInvoke[analytics.Store](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client: redis.NewClient(&redis.Options{
				Addr: options.RedisAddr,
			}),
			ConsumerGroup: "analytics",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicURLCreated, eventStore.SaveURLCreated, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicURLAccessed, eventStore.SaveURLAccessed, logger))

		return group, nil
	})
}

// HTTPPackage provides the chi router and the huma API with all routes and
// middleware registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		options := do.MustInvoke[*Options](i)

		router := chi.NewMux()
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   options.ResolvedAllowedOrigins(),
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
		}))

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		limiter := do.MustInvoke[*ratelimit.Limiter](i)
		service := do.MustInvoke[*shortener.Service](i)
		validator := do.MustInvoke[*shortener.Validator](i)
		pool := do.MustInvoke[*pgxpool.Pool](i)
		client := do.MustInvoke[*redis.Client](i)
		publishCreated := do.MustInvoke[messaging.Publish[analytics.URLCreatedEvent]](i)
		publishAccessed := do.MustInvoke[messaging.Publish[analytics.URLAccessedEvent]](i)

		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.RateLimiter(api, limiter, logger))

		urlHandler := handlers.NewURLHandler(
			service,
			validator,
			options.ResolvedBaseURL(),
			publishCreated,
			publishAccessed,
			logger,
		)

		health.RegisterRoutes(api, health.NewHandler(
			health.NewPostgresChecker(pool),
			health.NewRedisChecker(client),
		))
		handlers.RegisterRoutes(api, urlHandler)

		return api, nil
	})
}
