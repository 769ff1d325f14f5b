package shortener

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when no short link exists for a key.
var ErrNotFound = errors.New("short link not found")

// RedirectMode selects the redirect semantics of a short link.
type RedirectMode string

const (
	// ModePermanent issues permanent redirects.
	ModePermanent RedirectMode = "permanent"
	// ModeTemporary issues temporary redirects.
	ModeTemporary RedirectMode = "temporary"
)

// Redirection describes where a short link points and how.
type Redirection struct {
	Target string
	Mode   RedirectMode
}

// Properties holds the optional metadata fixed at link creation.
type Properties struct {
	Safe    bool
	IP      string
	Sponsor string
	Brand   string
}

// ShortLink binds a hash to its target URL and metadata. The hash is the
// primary key and is derived deterministically from the target, so
// re-submitting the same URL yields the same record.
type ShortLink struct {
	Hash        string
	Redirection Redirection
	Properties  Properties
	CreatedAt   time.Time
}

// Repository is the persistence port for short links.
type Repository interface {
	// Save persists the link and returns the stored record. Saving a hash
	// that already exists keeps and returns the existing record.
	Save(ctx context.Context, link *ShortLink) (*ShortLink, error)

	// FindByKey returns the link for the given hash, or ErrNotFound.
	FindByKey(ctx context.Context, key string) (*ShortLink, error)
}
