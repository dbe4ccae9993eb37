package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/SlySlayer32/Youtubeseoai/internal/models"
)

// ResponseTTL is how long a completed response stays cached.
const ResponseTTL = time.Hour

const keyPrefix = "chat:response:"

// Key builds the canonical fingerprint for a chat request. The
// fingerprint is the md5 of a JSON document with sorted keys, so two
// requests that differ only in parameter ordering map to the same
// entry. The message must be the user's original text, before any
// retrieved sources are appended.
func Key(message, model string, parameters map[string]models.ParamValue) string {
	payload := map[string]any{
		"message":    message,
		"model":      model,
		"parameters": parameters,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		// Marshal only fails for unsupported types, which the payload
		// cannot contain.
		log.Printf("⚠️ [CACHE] Failed to build cache key: %v", err)
		return ""
	}
	sum := md5.Sum(data)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// ResponseCache stores completed assistant responses. Backend failures
// degrade to cache misses so a dead Redis never blocks chat traffic.
type ResponseCache struct {
	store Store
}

func NewResponseCache(store Store) *ResponseCache {
	return &ResponseCache{store: store}
}

// Lookup returns the cached response for key, if any.
func (c *ResponseCache) Lookup(ctx context.Context, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	val, found, err := c.store.Get(ctx, key)
	if err != nil {
		log.Printf("⚠️ [CACHE] Lookup failed, treating as miss: %v", err)
		return "", false
	}
	return val, found
}

// Store saves a completed response. Concurrent writers race
// last-write-wins, which is fine because identical requests produce
// interchangeable responses.
func (c *ResponseCache) Store(ctx context.Context, key, response string) {
	if key == "" {
		return
	}
	if err := c.store.Set(ctx, key, response, ResponseTTL); err != nil {
		log.Printf("⚠️ [CACHE] Store failed, response not cached: %v", err)
	}
}
