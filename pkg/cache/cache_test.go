package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should never hit")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("cache dir not created: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expected miss after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("expected hit before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expected miss after expiry")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("{not json"), 0o644)

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry should be a silent miss, got hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("expected miss after Clear")
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	buf := []byte("value")
	_ = c.Set(ctx, "k", buf, time.Second)
	buf[0] = 'X'

	data, hit, _ := c.Get(ctx, "k")
	if !hit || string(data) != "value" {
		t.Fatalf("Get = %q, %v; stored data must not alias the caller's slice", data, hit)
	}

	now = now.Add(2 * time.Second)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expected miss after expiry")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("source", "https://example.com/org.json"); got != "http:source:https://example.com/org.json" {
		t.Errorf("HTTPKey = %s", got)
	}

	c1 := k.ChartKey("h", ChartKeyOpts{ExpandDepth: 1})
	c2 := k.ChartKey("h", ChartKeyOpts{ExpandDepth: 2})
	c3 := k.ChartKey("h", ChartKeyOpts{ExpandDepth: 1, Toggles: []string{"dept:eng"}})
	if c1 == c2 || c1 == c3 {
		t.Error("different ChartKeyOpts should produce different keys")
	}
	if c1 != k.ChartKey("h", ChartKeyOpts{ExpandDepth: 1}) {
		t.Error("ChartKey should be deterministic")
	}

	a1 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Renderer: "cards"})
	a2 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Renderer: "nodelink"})
	if a1 == a2 {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "tenant:1:")
	if got := scoped.HTTPKey("source", "x"); got != "tenant:1:http:source:x" {
		t.Errorf("HTTPKey = %s", got)
	}
	for _, key := range []string{
		scoped.ChartKey("h", ChartKeyOpts{}),
		scoped.ArtifactKey("h", ArtifactKeyOpts{}),
	} {
		if !strings.HasPrefix(key, "tenant:1:") {
			t.Errorf("key %s should be prefixed", key)
		}
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.HTTPKey("test", "key"); key != "prefix:http:test:key" {
		t.Errorf("unexpected key with nil inner: %s", key)
	}
}

func TestRedisCacheBadURL(t *testing.T) {
	if _, err := DialRedis(context.Background(), "not-a-url://", ""); err == nil {
		t.Error("DialRedis should reject an invalid URL")
	}
}

func TestMongoEntry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	forever := newMongoEntry("k", []byte("v"), 0, now)
	if forever.ExpiresAt != nil {
		t.Error("ttl 0 should not set expires_at")
	}
	if expired(forever, now.Add(1000*time.Hour)) {
		t.Error("entry without expiry never expires")
	}

	e := newMongoEntry("k", []byte("v"), time.Minute, now)
	if expired(e, now) || !expired(e, now.Add(2*time.Minute)) {
		t.Error("expiry check is off")
	}

	raw, err := bson.Marshal(e)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}
	if doc["_id"] != "k" {
		t.Errorf("_id = %v, want k", doc["_id"])
	}
	if _, ok := doc["expires_at"]; !ok {
		t.Error("expires_at should be stored for TTL index")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should unwrap to ErrNetwork")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("message should be preserved: %s", err)
	}
	if IsRetryable(ErrNotFound) {
		t.Error("plain errors are not retryable")
	}
}

func TestBackoffRetry(t *testing.T) {
	ctx := context.Background()
	b := Backoff{Attempts: 3, Initial: time.Millisecond}

	calls := 0
	if err := b.Retry(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	calls = 0
	err := b.Retry(ctx, func() error { calls++; return ErrNotFound })
	if err != ErrNotFound || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = b.Retry(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry then succeed: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = b.Retry(ctx, func() error { calls++; return Retryable(ErrNetwork) })
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("should return context error: %v", err)
	}
	if calls != 0 {
		t.Errorf("canceled context should not call fn, got %d calls", calls)
	}
}
