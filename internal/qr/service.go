// Package qr renders QR code images for short links, memoizing the result
// per hash.
package qr

import (
	"context"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/dvalfre/urlshortener/internal/cache"
)

// DefaultSize is the edge length, in pixels, of a rendered QR code.
const DefaultSize = 350

// Options configures rendering. QR codes are square, so a single edge
// length is enough.
type Options struct {
	// Size is the image edge length in pixels. Zero means DefaultSize.
	Size int
}

// Service renders PNG QR codes encoding the fully qualified short-link URL.
// Rendering is pure given (hash, size); the cache in front of it guarantees
// one render per hash while cached.
type Service struct {
	cache   *cache.Cache[string, []byte]
	baseURL string
	size    int
}

// NewService creates a QR rendering service. The cache instance is owned by
// the caller so its bounds and lifetime stay explicit.
func NewService(c *cache.Cache[string, []byte], baseURL string, opts Options) *Service {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}

	return &Service{
		cache:   c,
		baseURL: baseURL,
		size:    size,
	}
}

// Generate returns a PNG image encoding "<base>/<hash>". The service never
// touches the repository: callers decide whether the hash resolves to a real
// link before or after rendering.
func (s *Service) Generate(ctx context.Context, hash string) ([]byte, error) {
	return s.cache.Get(ctx, hash, func(context.Context) ([]byte, error) {
		png, err := qrcode.Encode(s.baseURL+"/"+hash, qrcode.Medium, s.size)
		if err != nil {
			return nil, fmt.Errorf("render qr for %q: %w", hash, err)
		}

		return png, nil
	})
}
