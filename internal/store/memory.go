package store

import (
	"context"
	"sync"

	"github.com/dvalfre/urlshortener/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository, used
// in tests and single-process development.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[string]shortener.ShortLink // hash -> link
}

// NewMemoryStore creates an empty in-memory short-link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[string]shortener.ShortLink),
	}
}

func (m *MemoryStore) Save(_ context.Context, link *shortener.ShortLink) (*shortener.ShortLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// The hash is a pure function of the URL, so a record already stored
	// under the same hash is the same record; the first write wins.
	if existing, ok := m.links[link.Hash]; ok {
		stored := existing

		return &stored, nil
	}

	m.links[link.Hash] = *link

	return link, nil
}

func (m *MemoryStore) FindByKey(_ context.Context, key string) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[key]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	stored := link

	return &stored, nil
}
