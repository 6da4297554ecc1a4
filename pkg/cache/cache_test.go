package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

// exerciseCache runs the behavior every backend shares.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, "layout:a", []byte(`{"root":"Query"}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:a")
	if err != nil || !hit || string(data) != `{"root":"Query"}` {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Errorf("second Delete: %v", err)
	}

	if cl, ok := c.(Clearer); ok {
		_ = c.Set(ctx, "a", []byte("1"), 0)
		_ = c.Set(ctx, "b", []byte("2"), 0)
		if err := cl.Clear(ctx); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		if _, hit, _ := c.Get(ctx, "a"); hit {
			t.Error("entry survived Clear")
		}
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	exerciseCache(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want silent miss", hit, err)
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("SCHEMAMAP_TEST_REDIS_URL")
	if url == "" {
		t.Skip("SCHEMAMAP_TEST_REDIS_URL not set")
	}
	c, err := NewRedisCache(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	c.prefix = "schemamap-test:"
	exerciseCache(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("SCHEMAMAP_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SCHEMAMAP_TEST_MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), uri, "schemamap_test", "cache")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestHash(t *testing.T) {
	if Hash([]byte("hello")) != Hash([]byte("hello")) {
		t.Error("Hash is not deterministic")
	}
	if Hash([]byte("hello")) == Hash([]byte("world")) {
		t.Error("different inputs share a hash")
	}
	if n := len(Hash([]byte("hello"))); n != 64 {
		t.Errorf("len(Hash) = %d, want 64", n)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := LayoutKeyOpts{Root: "Query", MaxDepth: 2, RingCount: 2, Width: 600, Height: 600}
	other := base
	other.Root = "User"
	if k.LayoutKey("h", base) == k.LayoutKey("h", other) {
		t.Error("different roots share a layout key")
	}
	if k.LayoutKey("h1", base) == k.LayoutKey("h2", base) {
		t.Error("different schemas share a layout key")
	}
	if k.LayoutKey("h", base) != k.LayoutKey("h", base) {
		t.Error("layout key is not deterministic")
	}

	svg := k.ArtifactKey("m", ArtifactKeyOpts{Format: "svg"})
	png := k.ArtifactKey("m", ArtifactKeyOpts{Format: "png"})
	if svg == png {
		t.Error("different formats share an artifact key")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "session:1:")

	opts := LayoutKeyOpts{Root: "Query"}
	if got, want := scoped.LayoutKey("h", opts), "session:1:"+inner.LayoutKey("h", opts); got != want {
		t.Errorf("LayoutKey = %s, want %s", got, want)
	}
	if got := NewScopedKeyer(nil, "p:").ArtifactKey("m", ArtifactKeyOpts{Format: "svg"}); got[:2] != "p:" {
		t.Errorf("nil inner: key %s lacks prefix", got)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	retryDelay = time.Millisecond
	ctx := context.Background()
	permanent := errors.New("permanent")

	tests := []struct {
		name  string
		fails int
		err   error
		calls int
		want  error
	}{
		{"success", 0, nil, 1, nil},
		{"permanent failure", 5, permanent, 1, permanent},
		{"recovers", 1, Retryable(ErrUnavailable), 2, nil},
		{"gives up", 5, Retryable(ErrUnavailable), 3, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.fails {
					return tt.err
				}
				return nil
			})
			if calls != tt.calls {
				t.Errorf("calls = %d, want %d", calls, tt.calls)
			}
			if !errors.Is(err, tt.want) && !(err == nil && tt.want == nil) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrUnavailable) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) || err.Error() != ErrUnavailable.Error() {
		t.Errorf("Retryable(ErrUnavailable) = %v", err)
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("bare error reported retryable")
	}
}
