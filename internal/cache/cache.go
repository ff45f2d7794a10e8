// Package cache stores rendered analysis reports keyed by a digest of the
// search-run document they were computed from, so re-analyzing an unchanged
// capture costs nothing.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// DocumentKey generates a cache key from a raw search-run document. Any
// change to the capture, including attribute order, yields a different key.
func DocumentKey(document []byte) string {
	hash := sha256.Sum256(document)
	return "morespeech:v1:" + hex.EncodeToString(hash[:])
}
