package cache

import "github.com/rohmanhakim/review-parser/internal/extractor"

// Cache defines the port interface for parsed-result caching.
// This interface follows the port-adapter pattern, allowing different
// cache implementations to be swapped without changing the resolver logic.
//
// Keys are domain keys, compared exactly: "example.com" and "Example.com"
// are distinct entries. Implementations own their expiry and bounding
// policy; callers only observe presence or absence.
type Cache interface {
	// Get retrieves the parsed result for a domain key.
	// Returns the cached result and true if present and fresh, or a zero
	// result and false otherwise. A hit counts as an access.
	Get(key string) (extractor.Result, bool)

	// Put stores the parsed result for a domain key.
	// If the key already exists, the result is overwritten. Storing counts
	// as an access.
	Put(key string, value extractor.Result)
}
