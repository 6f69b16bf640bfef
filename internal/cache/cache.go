package cache

import (
	"context"
	"sync"
	"time"
)

// LoaderFunc produce el valor autoritativo cuando la cache no lo tiene.
type LoaderFunc[T any] func(ctx context.Context) (T, error)

// Cache implementa lectura cache-aside con TTL por entrada.
type Cache[T any] interface {
	GetOrLoad(ctx context.Context, key string, loader LoaderFunc[T]) (T, error)
	Invalidate(ctx context.Context, key string) error
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// MemoryCache guarda entradas en memoria del proceso, con expiracion
// perezosa al acceder; no hay barrido en background.
type MemoryCache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[T]
	now     func() time.Time
}

func NewMemoryCache[T any](ttl time.Duration) *MemoryCache[T] {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &MemoryCache[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
		now:     time.Now,
	}
}

// GetOrLoad devuelve la entrada vigente o invoca loader y guarda el
// resultado. El loader corre fuera del lock: dos misses concurrentes
// sobre la misma clave pueden cargar dos veces y gana la ultima
// escritura, lo cual es aceptable para datos de referencia idempotentes.
func (c *MemoryCache[T]) GetOrLoad(ctx context.Context, key string, loader LoaderFunc[T]) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if c.now().Before(e.expiresAt) {
			c.mu.Unlock()
			return e.value, nil
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	value, err := loader(ctx)
	if err != nil {
		// Sin caching negativo: la clave queda vacia.
		var zero T
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = entry[T]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return value, nil
}

func (c *MemoryCache[T]) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}
