package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key digests parts into a cache key. Parts are trimmed so incidental
// whitespace does not split entries.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strings.TrimSpace(p)))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
