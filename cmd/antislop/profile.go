package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/corvid-labs/antislop/internal/cache"
	"github.com/corvid-labs/antislop/internal/config"
	"github.com/corvid-labs/antislop/pkg/registry"
)

// localProfileDir is where project-local named profiles live:
// .antislop/profiles/<name>.toml.
const localProfileDir = ".antislop/profiles"

// resolveProfileFile resolves --profile's name-or-path-or-url form into a
// local file path: a URL is fetched and cached under the configured cache
// directory (the user cache directory by default) with a TTL-bounded
// freshness window; anything else is either
// a direct file path or a bare name looked up under .antislop/profiles.
func resolveProfileFile(value string, cfg *config.Config) (string, error) {
	if value == "" {
		return "", nil
	}

	if strings.Contains(value, "://") {
		return fetchRemoteProfile(value, cfg)
	}

	if fileExists(value) {
		return value, nil
	}

	named := filepath.Join(localProfileDir, value)
	if !strings.HasSuffix(named, ".toml") {
		named += ".toml"
	}
	if fileExists(named) {
		return named, nil
	}

	return "", fmt.Errorf("profile %q: not a URL, not a file, and not found under %s", value, localProfileDir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// fetchRemoteProfile downloads url, going through a cache.Cache keyed on
// the URL itself so the TTL check, freshness window, and on-disk entry
// format all come from the cache package rather than being reimplemented
// here. The fetched (or cached) bytes are also mirrored to a plain .toml
// path under the same cache directory, since registry.LoadProfileFile
// (like every other profile source) reads a file path, while cache.Cache
// stores entries wrapped in its own JSON envelope under a hashed filename.
func fetchRemoteProfile(url string, cfg *config.Config) (string, error) {
	baseDir := cfg.Cache.Dir
	if baseDir == "" {
		dir, err := cache.DefaultProfileCacheDir()
		if err != nil {
			return "", fmt.Errorf("resolve profile cache directory: %w", err)
		}
		baseDir = filepath.Dir(dir) // DefaultProfileCacheDir already appends "profiles"
	}
	profileCacheDir := filepath.Join(baseDir, "profiles")

	c, err := cache.New(profileCacheDir, cfg.Cache.TTLHours, cfg.Cache.Enabled)
	if err != nil {
		return "", fmt.Errorf("open profile cache: %w", err)
	}

	mirrorPath := cache.ProfileCachePath(baseDir, url)

	if data, ok := c.Get(url); ok {
		if err := mirrorProfile(mirrorPath, data); err != nil {
			return "", err
		}
		return mirrorPath, nil
	}

	resp, err := http.Get(url) //nolint:gosec // url is an operator-supplied --profile value, not attacker input
	if err != nil {
		return "", fmt.Errorf("fetch profile %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch profile %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch profile %s: %w", url, err)
	}
	if err := c.Set(url, data); err != nil {
		return "", fmt.Errorf("cache profile %s: %w", url, err)
	}
	if err := mirrorProfile(mirrorPath, data); err != nil {
		return "", err
	}
	return mirrorPath, nil
}

// mirrorProfile writes data to path so the cached profile can be read
// back by path like any other TOML source.
func mirrorProfile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create profile cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("mirror cached profile to %s: %w", path, err)
	}
	return nil
}

// buildRegistry composes the pattern registry from the project
// configuration file (if any, merged into the baseline profile) and the
// resolved --profile file (if any), registering its extends chain from
// localProfileDir so Compose's DAG resolution can see them.
func buildRegistry(projectConfigPath, profilePath string) (*registry.Registry, string, error) {
	reg := registry.NewRegistry()

	if projectConfigPath != "" {
		proj, err := registry.LoadProfileFile(projectConfigPath)
		if err != nil {
			return nil, "", err
		}
		proj.Name = ""
		if err := reg.AddProfile(proj); err != nil {
			return nil, "", err
		}
	}

	if profilePath == "" {
		return reg, "", nil
	}

	profileName, err := registerProfileChain(reg, profilePath, map[string]bool{})
	if err != nil {
		return nil, "", err
	}
	return reg, profileName, nil
}

// registerProfileChain loads path and every profile it (transitively)
// extends from localProfileDir, so Compose later sees the whole DAG. seen
// guards against re-reading a profile already loaded in this chain.
func registerProfileChain(reg *registry.Registry, path string, seen map[string]bool) (string, error) {
	prof, err := registry.LoadProfileFile(path)
	if err != nil {
		return "", err
	}
	if prof.Name == "" {
		prof.Name = strings.TrimSuffix(filepath.Base(path), ".toml")
	}
	if seen[prof.Name] {
		return prof.Name, nil
	}
	seen[prof.Name] = true
	if err := reg.AddProfile(prof); err != nil {
		return "", err
	}

	for _, parent := range prof.Extends {
		if seen[parent] {
			continue
		}
		parentPath := filepath.Join(localProfileDir, parent)
		if !strings.HasSuffix(parentPath, ".toml") {
			parentPath += ".toml"
		}
		if !fileExists(parentPath) {
			continue // Compose surfaces "unknown profile reference" itself
		}
		if _, err := registerProfileChain(reg, parentPath, seen); err != nil {
			return "", err
		}
	}

	return prof.Name, nil
}
