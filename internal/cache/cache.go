// Package cache defines a small byte-oriented cache abstraction with
// in-memory and Redis backends. The auth flows use it for short-lived
// one-shot values (OAuth state); it is not a general data store.
package cache

import "time"

// Cache is the minimal contract both backends satisfy.
type Cache interface {
	// Get returns the value and whether the key exists and has not expired.
	Get(key string) ([]byte, bool)

	// Set stores a value with a TTL. A zero TTL uses the backend default.
	Set(key string, value []byte, ttl time.Duration)

	// Delete removes a key. Deleting a missing key is a no-op.
	Delete(key string)
}
