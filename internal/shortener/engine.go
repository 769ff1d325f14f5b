package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// InvalidURLError reports a URL or brand that failed validation. It is a
// user error: surfaced as-is, never retried.
type InvalidURLError struct {
	Value  string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url %q: %s", e.Value, e.Reason)
}

// Engine turns URLs into persisted short links. It is stateless; all state
// lives behind the Repository port, so concurrent calls need no coordination.
type Engine struct {
	repo Repository
	hash Hasher
}

// NewEngine creates an engine backed by the given repository and hasher.
func NewEngine(repo Repository, hash Hasher) *Engine {
	return &Engine{repo: repo, hash: hash}
}

// Create validates rawURL (and the brand, when present), derives the hash
// and persists the resulting link. Validation failures are detected before
// any hashing or repository work; repository errors propagate unchanged.
func (e *Engine) Create(ctx context.Context, rawURL string, props Properties) (*ShortLink, error) {
	if v := CheckURL(rawURL); !v.OK {
		return nil, &InvalidURLError{Value: rawURL, Reason: v.Reason}
	}

	if props.Brand != "" {
		if v := CheckDomain(props.Brand); !v.OK {
			return nil, &InvalidURLError{Value: props.Brand, Reason: v.Reason}
		}
	}

	link := &ShortLink{
		Hash: e.hash(rawURL),
		Redirection: Redirection{
			Target: rawURL,
			Mode:   ModePermanent,
		},
		Properties: props,
		CreatedAt:  time.Now(),
	}

	return e.repo.Save(ctx, link)
}

// FindByKey returns the link for the given hash, or (nil, nil) when no such
// link exists. Repository failures other than absence propagate unchanged.
func (e *Engine) FindByKey(ctx context.Context, key string) (*ShortLink, error) {
	link, err := e.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return link, nil
}

// HashOf exposes the engine's identifier derivation so callers can probe for
// an existing record without creating one.
func (e *Engine) HashOf(rawURL string) string {
	return e.hash(rawURL)
}
