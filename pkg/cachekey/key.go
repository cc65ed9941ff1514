// Package cachekey builds the cache key for a (host, path) pair.
// The key uses an explicit separator so that distinct pairs can never
// concatenate to the same key.
package cachekey

import (
	"fmt"
	"strings"
)

// separator cannot appear in a hostname, and a path containing it would
// have been rejected by the request matcher ahead of key construction.
const separator = "\t"

// Key returns the cache key for the given origin host and request path.
func Key(host, path string) string {
	return host + separator + path
}

// Split recovers the (host, path) pair from a key.
func Split(key string) (host, path string, err error) {
	host, path, found := strings.Cut(key, separator)
	if !found {
		return "", "", fmt.Errorf("malformed key: %q", key)
	}
	return host, path, nil
}
