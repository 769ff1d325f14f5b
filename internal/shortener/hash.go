package shortener

import (
	"fmt"

	"github.com/spaolacci/murmur3"
)

// Hasher maps a URL to its short identifier. Implementations must be
// deterministic across processes: the identifier doubles as the repository
// key, so the same URL has to land on the same record every time.
type Hasher func(rawURL string) string

// MurmurHasher derives an 8-character lowercase hex identifier from the
// 32-bit murmur3 digest of the URL. Distinct URLs that collide in the digest
// silently alias to one record; no collision resolution is attempted.
func MurmurHasher(rawURL string) string {
	return fmt.Sprintf("%08x", murmur3.Sum32([]byte(rawURL)))
}
