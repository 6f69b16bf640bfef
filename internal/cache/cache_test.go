package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCache_GetOrLoad(t *testing.T) {
	now := time.Now().UTC()
	c := NewMemoryCache[string](time.Second)
	c.now = func() time.Time { return now }

	calls := 0
	loader := func(context.Context) (string, error) {
		calls++
		return "value", nil
	}

	got, err := c.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("get or load: %v", err)
	}
	if got != "value" || calls != 1 {
		t.Fatalf("expected first call to invoke loader once, got %q calls=%d", got, calls)
	}

	// Dentro del TTL sirve desde cache.
	now = now.Add(500 * time.Millisecond)
	got, err = c.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("get or load: %v", err)
	}
	if got != "value" || calls != 1 {
		t.Fatalf("expected cached value without reload, calls=%d", calls)
	}

	// Pasado el TTL recarga.
	now = now.Add(time.Second)
	if _, err := c.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("get or load: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected reload after expiry, calls=%d", calls)
	}
}

func TestMemoryCache_LoaderErrorNotCached(t *testing.T) {
	c := NewMemoryCache[string](time.Minute)
	upstream := errors.New("upstream down")

	calls := 0
	failing := func(context.Context) (string, error) {
		calls++
		return "", upstream
	}

	if _, err := c.GetOrLoad(context.Background(), "k", failing); !errors.Is(err, upstream) {
		t.Fatalf("expected loader error to propagate, got %v", err)
	}

	// Sin caching negativo: la siguiente llamada vuelve a cargar.
	working := func(context.Context) (string, error) {
		calls++
		return "ok", nil
	}
	got, err := c.GetOrLoad(context.Background(), "k", working)
	if err != nil {
		t.Fatalf("get or load: %v", err)
	}
	if got != "ok" || calls != 2 {
		t.Fatalf("expected fresh load after failure, got %q calls=%d", got, calls)
	}
}

func TestMemoryCache_KeysAreIndependent(t *testing.T) {
	c := NewMemoryCache[int](time.Minute)

	a, err := c.GetOrLoad(context.Background(), "a", func(context.Context) (int, error) { return 1, nil })
	if err != nil || a != 1 {
		t.Fatalf("load a: %v %d", err, a)
	}
	b, err := c.GetOrLoad(context.Background(), "b", func(context.Context) (int, error) { return 2, nil })
	if err != nil || b != 2 {
		t.Fatalf("load b: %v %d", err, b)
	}
}

func TestMemoryCache_Invalidate(t *testing.T) {
	c := NewMemoryCache[string](time.Minute)

	calls := 0
	loader := func(context.Context) (string, error) {
		calls++
		return "value", nil
	}

	if _, err := c.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("get or load: %v", err)
	}
	if err := c.Invalidate(context.Background(), "k"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := c.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("get or load: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected reload after invalidation, calls=%d", calls)
	}
}
