// Package swrcache caches directory reads on disk with stale-while-revalidate
// semantics: fresh entries are served directly, stale ones are served while a
// single background refresh runs, and expired ones are fetched synchronously.
//
// Entries are partitioned by scope (the directory realm) so that pointing the
// CLI at another domain never serves the previous domain's data.
package swrcache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"nathanbeddoewebdev/dirctl/internal/logging"
	"nathanbeddoewebdev/dirctl/internal/metrics"
)

const (
	defaultFreshTTL = time.Minute
	defaultMaxStale = 15 * time.Minute
	refreshTimeout  = 30 * time.Second
	defaultScope    = "default"
)

// Options tunes a Cache. Zero TTLs select the defaults; a negative MaxStale
// serves stale entries regardless of age.
type Options struct {
	FreshTTL time.Duration
	MaxStale time.Duration
	Scope    string
}

// Cache stores JSON-encoded read results, one file per key.
type Cache struct {
	dir      string
	freshTTL time.Duration
	maxStale time.Duration

	// refreshing holds keys with a background revalidation in flight.
	refreshing sync.Map
}

// entry is the on-disk form of one cached value.
type entry[T any] struct {
	Key       string    `json:"key"`
	Data      T         `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

type freshness int

const (
	miss freshness = iota
	fresh
	stale
	expired
)

// New returns a cache under root/<scope>.
func New(root string, opts Options) *Cache {
	c := &Cache{
		dir:      filepath.Join(root, scopeDir(opts.Scope)),
		freshTTL: opts.FreshTTL,
		maxStale: opts.MaxStale,
	}
	if c.freshTTL <= 0 {
		c.freshTTL = defaultFreshTTL
	}
	if c.maxStale == 0 {
		c.maxStale = defaultMaxStale
	}
	return c
}

// ForRealm returns a cache under the user cache directory scoped to realm.
func ForRealm(realm string) *Cache {
	return New(defaultRoot(), Options{Scope: realm})
}

// Dir returns the directory holding this cache's entries.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// GetOrFetch returns the cached value for key, calling fetch when there is
// none or it has expired. A nil cache always fetches.
func GetOrFetch[T any](c *Cache, ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	if c == nil || c.dir == "" {
		return fetch(ctx)
	}

	e, state := load[T](c, key, time.Now())
	switch state {
	case fresh:
		metrics.CacheLookups.WithLabelValues("fresh").Inc()
		return e.Data, nil
	case stale:
		metrics.CacheLookups.WithLabelValues("stale").Inc()
		c.revalidate(key, func(ctx context.Context) error {
			data, err := fetch(ctx)
			if err != nil {
				return err
			}
			return store(c, key, data)
		})
		return e.Data, nil
	}

	metrics.CacheLookups.WithLabelValues("miss").Inc()
	data, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := store(c, key, data); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
	return data, nil
}

// Invalidate removes a single cached entry.
func (c *Cache) Invalidate(key string) error {
	if c == nil || c.dir == "" {
		return nil
	}
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// InvalidatePrefix removes every entry whose key starts with prefix.
func (c *Cache) InvalidatePrefix(prefix string) error {
	if c == nil || c.dir == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(c.dir, fileKey(prefix)+"*"))
	if err != nil {
		return err
	}
	var errs []error
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clear removes every entry in this cache's scope.
func (c *Cache) Clear() error {
	if c == nil || c.dir == "" {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// classify places an entry of the given age on the freshness scale.
func (c *Cache) classify(age time.Duration) freshness {
	switch {
	case age < 0:
		return expired
	case age <= c.freshTTL:
		return fresh
	case c.maxStale < 0 || age <= c.maxStale:
		return stale
	}
	return expired
}

// revalidate runs refresh in the background unless one is already running
// for key.
func (c *Cache) revalidate(key string, refresh func(context.Context) error) {
	if _, busy := c.refreshing.LoadOrStore(key, struct{}{}); busy {
		return
	}
	go func() {
		defer c.refreshing.Delete(key)
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := refresh(ctx); err != nil {
			logging.Default().Debug().Err(err).Str("key", key).Msg("cache revalidation failed")
		}
	}()
}

func load[T any](c *Cache, key string, now time.Time) (entry[T], freshness) {
	var e entry[T]
	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		return e, miss
	}
	if err := json.Unmarshal(raw, &e); err != nil || e.FetchedAt.IsZero() || e.Key != key {
		return e, miss
	}
	return e, c.classify(now.Sub(e.FetchedAt))
}

// store writes data for key atomically.
func store[T any](c *Cache, key string, data T) error {
	return storeAt(c, key, data, time.Now())
}

func storeAt[T any](c *Cache, key string, data T, fetchedAt time.Time) error {
	payload, err := json.Marshal(entry[T]{Key: key, Data: data, FetchedAt: fetchedAt})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(payload)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path(key))
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, fileKey(key)+".json")
}

func defaultRoot() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "dirctl", "directory")
}

// scopeDir maps a realm to a directory name. Realms are case-insensitive.
func scopeDir(scope string) string {
	scope = strings.ToLower(strings.TrimSpace(scope))
	if scope == "" {
		return defaultScope
	}
	return fileKey(scope)
}

// fileKey replaces everything outside [A-Za-z0-9_-] with '_'.
func fileKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
}
