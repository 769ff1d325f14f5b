package ratelimit

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Store is the storage port for rate limit bookkeeping.
type Store interface {
	// Record registers a request and returns the number of requests seen for
	// the key inside the current window, pruning expired entries.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// MetadataKey is the key under which endpoint rate limit configuration is
// attached to huma operation metadata.
const MetadataKey = "rateLimit"

// LimitConfig is one limit: at most Max requests per Window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig overrides the default limits for a single operation via its
// Metadata field.
type EndpointConfig struct {
	// Limits replaces the default limits when non-empty.
	Limits []LimitConfig

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if
// present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
