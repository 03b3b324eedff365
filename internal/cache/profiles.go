package cache

import (
	"os"
	"path/filepath"
)

// ProfileCacheKey derives the cache key for a remote profile URL: the
// BLAKE3 hash HashBytes already computes, reused so fetch and lookup
// always agree on the same key for the same URL.
func ProfileCacheKey(url string) string {
	return HashBytes([]byte(url))
}

// ProfileCachePath returns the on-disk path a cached profile for url
// would live at under baseDir, following an "antislop/profiles/<hash>.toml"
// layout. The CLI mirrors a fetched profile to this path so it can be
// loaded like any other profile file; Get/Set keep their own entries at
// Cache.keyPath.
func ProfileCachePath(baseDir, url string) string {
	return filepath.Join(baseDir, "profiles", ProfileCacheKey(url)+".toml")
}

// DefaultProfileCacheDir returns the user cache directory's
// "antislop/profiles" subdirectory, creating nothing: New is what
// actually creates the directory once a Cache is constructed against it.
func DefaultProfileCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "antislop", "profiles"), nil
}
