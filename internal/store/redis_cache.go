package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dvalfre/urlshortener/internal/shortener"
)

// RedisCacheRepository wraps a shortener.Repository with Redis caching for
// reads. Cache entries expire after a TTL; the wrapped repository stays the
// source of truth.
type RedisCacheRepository struct {
	repo   shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheRepository creates a read-through cache decorator.
func NewRedisCacheRepository(
	repo shortener.Repository, client *redis.Client, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		repo:   repo,
		client: client,
		prefix: "linkcache:",
		ttl:    ttl,
	}
}

// Save stores the link in the underlying repository and updates the cache.
func (r *RedisCacheRepository) Save(ctx context.Context, link *shortener.ShortLink) (*shortener.ShortLink, error) {
	saved, err := r.repo.Save(ctx, link)
	if err != nil {
		return nil, err
	}

	// Write-through after a successful save; a cache failure is not a save
	// failure.
	r.cacheLink(ctx, saved)

	return saved, nil
}

// FindByKey checks the cache first, falling back to the repository and
// populating the cache on a miss.
func (r *RedisCacheRepository) FindByKey(ctx context.Context, key string) (*shortener.ShortLink, error) {
	if link, err := r.getCached(ctx, key); err == nil {
		return link, nil
	}

	link, err := r.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	r.cacheLink(ctx, link)

	return link, nil
}

func (r *RedisCacheRepository) cacheLink(ctx context.Context, link *shortener.ShortLink) {
	payload, err := json.Marshal(toStored(link))
	if err != nil {
		return
	}

	r.client.Set(ctx, r.prefix+link.Hash, payload, r.ttl)
}

func (r *RedisCacheRepository) getCached(ctx context.Context, key string) (*shortener.ShortLink, error) {
	payload, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	var stored storedLink
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, err
	}

	return fromStored(&stored), nil
}
