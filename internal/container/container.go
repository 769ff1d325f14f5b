// Package container wires the application together and owns the lifecycle
// of shared infrastructure.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/go-resty/resty/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/dvalfre/urlshortener/internal/analytics"
	"github.com/dvalfre/urlshortener/internal/batch"
	"github.com/dvalfre/urlshortener/internal/cache"
	"github.com/dvalfre/urlshortener/internal/geoip"
	"github.com/dvalfre/urlshortener/internal/handlers"
	"github.com/dvalfre/urlshortener/internal/messaging"
	"github.com/dvalfre/urlshortener/internal/middleware"
	"github.com/dvalfre/urlshortener/internal/qr"
	"github.com/dvalfre/urlshortener/internal/ratelimit"
	"github.com/dvalfre/urlshortener/internal/shortener"
	"github.com/dvalfre/urlshortener/internal/store"
)

// Options holds all runtime configuration, bound to CLI flags and
// environment variables by humacli.
type Options struct {
	Port        int    `default:"8888"                    help:"Port to listen on"                                        short:"p"`
	BaseURL     string `default:""                        help:"Public base URL for short links; empty derives localhost"`
	RedisAddr   string `default:"localhost:6379"          help:"Redis server address"                                     short:"r"`
	PostgresDSN string `default:""                        help:"Postgres connection string; empty keeps links in Redis"`
	GeoAPIURL   string `default:"http://api.ipstack.com"  help:"Geolocation provider base URL"`
	GeoAPIKey   string `default:""                        help:"Geolocation provider access key"`
	QRSize      int    `default:"350"                     help:"QR code edge length in pixels"`
	CacheSize   int    `default:"100"                     help:"Maximum entries per in-process cache"`
	LogFormat   string `default:"console"                 help:"Log format: console or json"`
}

func (o *Options) baseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

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

// PostgresPackage provides the pgx pool when a DSN is configured. Without
// one the pool stays nil and Redis is the system of record.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresDSN == "" {
			return nil, nil
		}

		return pgxpool.New(context.Background(), options.PostgresDSN)
	})
}

// RepositoryPackage provides the short-link repository and the engine on
// top of it. Postgres, when configured, is fronted by a Redis cache.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		options := do.MustInvoke[*Options](i)
		redisClient := do.MustInvoke[*redis.Client](i)

		if options.PostgresDSN != "" {
			pool := do.MustInvoke[*pgxpool.Pool](i)
			pg := store.NewPostgresStore(pool)

			return store.NewRedisCacheRepository(pg, redisClient, time.Hour), nil
		}

		return store.NewRedisStore(redisClient), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Engine, error) {
		repo := do.MustInvoke[shortener.Repository](i)

		return shortener.NewEngine(repo, shortener.MurmurHasher), nil
	})
}

// QRPackage provides the QR rendering service behind its access-expiring
// cache.
func QRPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*qr.Service, error) {
		options := do.MustInvoke[*Options](i)

		qrCache := cache.New[string, []byte](cache.Config{
			MaxEntries: options.CacheSize,
			Expiry:     time.Hour,
			Policy:     cache.ExpireAfterAccess,
		})

		return qr.NewService(qrCache, options.baseURL(), qr.Options{Size: options.QRSize}), nil
	})
}

// GeoPackage provides the geolocation service behind its write-expiring
// cache.
func GeoPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*geoip.Service, error) {
		options := do.MustInvoke[*Options](i)

		geoCache := cache.New[string, geoip.Geolocation](cache.Config{
			MaxEntries: options.CacheSize,
			Expiry:     24 * time.Hour,
			Policy:     cache.ExpireAfterWrite,
		})

		return geoip.NewService(resty.New(), geoCache, options.GeoAPIURL, options.GeoAPIKey), nil
	})
}

// RateLimitPackage provides the rate limit store and the default limiter.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		redisClient := do.MustInvoke[*redis.Client](i)

		return store.NewRateLimitRedisStore(redisClient), nil
	})

	do.Provide(injector, func(i *do.Injector) (ratelimit.Limiter, error) {
		s := do.MustInvoke[ratelimit.Store](i)

		return ratelimit.NewSlidingWindowLimiter(s, 100, time.Minute), nil
	})
}

// PublisherGroupPackage provides the analytics event publisher backed by
// Redis streams.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		redisClient := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NopLogger{},
		)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group backed by
// Redis streams.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		redisClient := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        redisClient,
				ConsumerGroup: "analytics",
			},
			watermill.NopLogger{},
		)
		if err != nil {
			return nil, err
		}

		analyticsStore := analytics.NewLogStore(logger)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(analytics.NewLinkCreatedConsumer(subscriber, analyticsStore, logger))
		group.Add(analytics.NewLinkAccessedConsumer(subscriber, analyticsStore, logger))

		return group, nil
	})
}

// HTTPPackage provides the router and the API with all routes and
// middleware registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		engine := do.MustInvoke[*shortener.Engine](i)
		redisClient := do.MustInvoke[*redis.Client](i)
		qrService := do.MustInvoke[*qr.Service](i)
		geoService := do.MustInvoke[*geoip.Service](i)
		rateStore := do.MustInvoke[ratelimit.Store](i)
		limiter := do.MustInvoke[ratelimit.Limiter](i)
		publishers := do.MustInvoke[*messaging.PublisherGroup](i)

		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.RateLimiter(api, rateStore, limiter, logger))

		baseURL := options.baseURL()

		linkHandler := handlers.NewLinkHandler(
			engine,
			baseURL,
			messaging.NewPublishFunc[analytics.LinkCreatedEvent](publishers.Publisher(), analytics.TopicLinkCreated),
			messaging.NewPublishFunc[analytics.LinkAccessedEvent](publishers.Publisher(), analytics.TopicLinkAccessed),
			logger,
		)
		qrHandler := handlers.NewQRHandler(engine, qrService, logger)
		geoHandler := handlers.NewGeoHandler(geoService, logger)
		csvHandler := handlers.NewCSVHandler(batch.NewTransformer(engine, baseURL), logger)

		var pgChecker handlers.HealthChecker
		if options.PostgresDSN != "" {
			pgChecker = handlers.NewPostgresHealthChecker(do.MustInvoke[*pgxpool.Pool](i))
		}

		healthHandler := handlers.NewHealthHandler(handlers.NewRedisHealthChecker(redisClient), pgChecker)

		handlers.RegisterRoutes(api, linkHandler, qrHandler, geoHandler, csvHandler, healthHandler)

		return api, nil
	})
}
