package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dvalfre/urlshortener/internal/ratelimit"
)

// RegisterRoutes registers all routes with per-endpoint rate limit
// configuration.
func RegisterRoutes(
	api huma.API,
	links *LinkHandler,
	qr *QRHandler,
	geo *GeoHandler,
	csv *CSVHandler,
	health *HealthHandler,
) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short link",
		Description: "Shortens a URL to a deterministic hash-based identifier.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
					{Window: 24 * time.Hour, Max: 500},
				},
			},
		},
	}, links.CreateShortLink)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{hash}",
		Summary:     "Redirect to target URL",
		Description: "Redirects to the URL behind the short identifier.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, links.Redirect)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/qr",
		Summary:     "Generate QR code",
		Description: "Renders a PNG QR code pointing at the short link for a URL, shortening it first when needed.",
		Tags:        []string{"QR"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 30},
					{Window: time.Hour, Max: 300},
				},
			},
		},
	}, qr.GenerateQR)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/geolocation",
		Summary:     "Locate the calling client",
		Description: "Resolves the client IP to a geographic location.",
		Tags:        []string{"Geolocation"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 60},
				},
			},
		},
	}, geo.Geolocation)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/csv",
		Summary:     "Shorten URLs in bulk",
		Description: "Shortens every URL in an uploaded CSV file and returns the short URLs as CSV.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 5},
					{Window: time.Hour, Max: 20},
				},
			},
		},
	}, csv.UploadCSV)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports the health of the service and its backends.",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Disabled: true,
			},
		},
	}, health.Check)
}
