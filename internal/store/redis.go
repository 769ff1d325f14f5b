package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dvalfre/urlshortener/internal/shortener"
)

const linkKeyPrefix = "link:"

// storedLink is the serialized form of a short link in Redis.
type storedLink struct {
	Hash      string    `json:"hash"`
	Target    string    `json:"target"`
	Mode      string    `json:"mode"`
	Safe      bool      `json:"safe"`
	IP        string    `json:"ip,omitempty"`
	Sponsor   string    `json:"sponsor,omitempty"`
	Brand     string    `json:"brand,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RedisStore is a Redis implementation of shortener.Repository.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed short-link store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Save(ctx context.Context, link *shortener.ShortLink) (*shortener.ShortLink, error) {
	payload, err := json.Marshal(toStored(link))
	if err != nil {
		return nil, err
	}

	// SETNX keeps the first record for a hash: re-saving the same URL is a
	// no-op rather than an overwrite.
	if err := r.client.SetNX(ctx, linkKeyPrefix+link.Hash, payload, 0).Err(); err != nil {
		return nil, err
	}

	return r.FindByKey(ctx, link.Hash)
}

func (r *RedisStore) FindByKey(ctx context.Context, key string) (*shortener.ShortLink, error) {
	payload, err := r.client.Get(ctx, linkKeyPrefix+key).Bytes()
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

func toStored(link *shortener.ShortLink) *storedLink {
	return &storedLink{
		Hash:      link.Hash,
		Target:    link.Redirection.Target,
		Mode:      string(link.Redirection.Mode),
		Safe:      link.Properties.Safe,
		IP:        link.Properties.IP,
		Sponsor:   link.Properties.Sponsor,
		Brand:     link.Properties.Brand,
		CreatedAt: link.CreatedAt,
	}
}

func fromStored(stored *storedLink) *shortener.ShortLink {
	return &shortener.ShortLink{
		Hash: stored.Hash,
		Redirection: shortener.Redirection{
			Target: stored.Target,
			Mode:   shortener.RedirectMode(stored.Mode),
		},
		Properties: shortener.Properties{
			Safe:    stored.Safe,
			IP:      stored.IP,
			Sponsor: stored.Sponsor,
			Brand:   stored.Brand,
		},
		CreatedAt: stored.CreatedAt,
	}
}
