package swrcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	return New(t.TempDir(), Options{FreshTTL: 5 * time.Minute, MaxStale: time.Hour, Scope: "EXAMPLE.COM"})
}

func seed[T any](t *testing.T, c *Cache, key string, data T, age time.Duration) {
	t.Helper()
	if err := storeAt(c, key, data, time.Now().Add(-age)); err != nil {
		t.Fatalf("storeAt(%q) error: %v", key, err)
	}
}

func cached[T any](c *Cache, key string) (T, bool) {
	e, state := load[T](c, key, time.Now())
	return e.Data, state != miss
}

func TestGetOrFetch(t *testing.T) {
	tests := []struct {
		name      string
		age       time.Duration // <0 means no entry
		want      string
		wantCalls int
	}{
		{"fresh entry is served", time.Minute, "cached", 0},
		{"expired entry is refetched", 2 * time.Hour, "fresh", 1},
		{"missing entry is fetched", -1, "fresh", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCache(t)
			if tt.age >= 0 {
				seed(t, c, "user_list", "cached", tt.age)
			}

			calls := 0
			got, err := GetOrFetch(c, context.Background(), "user_list", func(context.Context) (string, error) {
				calls++
				return "fresh", nil
			})
			if err != nil {
				t.Fatalf("GetOrFetch error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if calls != tt.wantCalls {
				t.Errorf("fetch called %d times, want %d", calls, tt.wantCalls)
			}
			if data, ok := cached[string](c, "user_list"); !ok || data != tt.want {
				t.Errorf("stored = %q (ok=%v), want %q", data, ok, tt.want)
			}
		})
	}
}

func TestGetOrFetch_StaleServedThenRefreshedOnce(t *testing.T) {
	c := newTestCache(t)
	seed(t, c, "group_list", []string{"Admins"}, 10*time.Minute)

	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"Admins", "Staff"}, nil
	}

	for range 3 {
		got, err := GetOrFetch(c, context.Background(), "group_list", fetch)
		if err != nil {
			t.Fatalf("GetOrFetch error: %v", err)
		}
		if diff := cmp.Diff([]string{"Admins"}, got); diff != "" {
			t.Fatalf("stale value mismatch (-want +got):\n%s", diff)
		}
	}
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if data, _ := cached[[]string](c, "group_list"); len(data) == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	data, _ := cached[[]string](c, "group_list")
	if diff := cmp.Diff([]string{"Admins", "Staff"}, data); diff != "" {
		t.Errorf("refreshed value mismatch (-want +got):\n%s", diff)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("fetch called %d times, want 1", n)
	}
}

func TestGetOrFetch_FetchErrorNotCached(t *testing.T) {
	c := newTestCache(t)
	boom := errors.New("timed out")

	_, err := GetOrFetch(c, context.Background(), "user_list", func(context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if _, ok := cached[string](c, "user_list"); ok {
		t.Fatal("failed fetch must not be cached")
	}
}

func TestGetOrFetch_NilCacheBypasses(t *testing.T) {
	var c *Cache
	got, err := GetOrFetch(c, context.Background(), "k", func(context.Context) (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Fatalf("got %d, %v", got, err)
	}
}

func TestInvalidate(t *testing.T) {
	c := newTestCache(t)
	for _, key := range []string{"user_list", "user_show_616c696365", "group_list"} {
		seed(t, c, key, "x", 0)
	}

	if err := c.InvalidatePrefix("user_"); err != nil {
		t.Fatalf("InvalidatePrefix error: %v", err)
	}
	for key, want := range map[string]bool{"user_list": false, "user_show_616c696365": false, "group_list": true} {
		if _, ok := cached[string](c, key); ok != want {
			t.Errorf("%s present = %v, want %v", key, ok, want)
		}
	}

	if err := c.Invalidate("group_list"); err != nil {
		t.Fatalf("Invalidate error: %v", err)
	}
	if err := c.Invalidate("group_list"); err != nil {
		t.Fatalf("Invalidate of a missing key error: %v", err)
	}
	if _, ok := cached[string](c, "group_list"); ok {
		t.Error("group_list still cached")
	}
}

func TestScopesAreIsolated(t *testing.T) {
	root := t.TempDir()
	a := New(root, Options{Scope: "EXAMPLE.COM"})
	b := New(root, Options{Scope: "corp.example.org"})
	same := New(root, Options{Scope: "example.com"})

	seed(t, a, "user_list", "from a", 0)

	if _, ok := cached[string](b, "user_list"); ok {
		t.Error("entry leaked into another realm")
	}
	if data, ok := cached[string](same, "user_list"); !ok || data != "from a" {
		t.Errorf("realm scope should be case-insensitive, got %q (ok=%v)", data, ok)
	}

	if err := a.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, err := os.Stat(a.Dir()); !os.IsNotExist(err) {
		t.Errorf("scope dir still present after Clear: %v", err)
	}
	if filepath.Dir(a.Dir()) != root || filepath.Base(New(root, Options{}).Dir()) != defaultScope {
		t.Errorf("unexpected layout: %s", a.Dir())
	}
}

func TestClassify(t *testing.T) {
	c := New("", Options{FreshTTL: time.Minute, MaxStale: time.Hour})
	tests := []struct {
		age  time.Duration
		want freshness
	}{
		{-time.Second, expired},
		{0, fresh},
		{time.Minute, fresh},
		{30 * time.Minute, stale},
		{2 * time.Hour, expired},
	}
	for _, tt := range tests {
		if got := c.classify(tt.age); got != tt.want {
			t.Errorf("classify(%v) = %v, want %v", tt.age, got, tt.want)
		}
	}

	forever := New("", Options{FreshTTL: time.Minute, MaxStale: -1})
	if got := forever.classify(1000 * time.Hour); got != stale {
		t.Errorf("negative MaxStale: classify = %v, want stale", got)
	}
}

func TestFileKey(t *testing.T) {
	tests := map[string]string{
		"user_show_616c696365": "user_show_616c696365",
		"group show/Admins":    "group_show_Admins",
		"  ":                   "cache",
		"../etc":               "___etc",
	}
	for in, want := range tests {
		if got := fileKey(in); got != want {
			t.Errorf("fileKey(%q) = %q, want %q", in, got, want)
		}
	}
}
