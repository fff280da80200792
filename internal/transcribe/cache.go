package transcribe

import (
	"context"
	"fmt"
	"sync"
)

// Cache holds loaded models for the process lifetime, keyed by name.
// There is no eviction: a model stays resident once loaded.
type Cache struct {
	loader Loader

	mu     sync.Mutex
	models map[string]*modelEntry
}

type modelEntry struct {
	mu    sync.Mutex
	model Model
}

func NewCache(loader Loader) *Cache {
	return &Cache{
		loader: loader,
		models: make(map[string]*modelEntry),
	}
}

// Get returns the model for name, loading it on first use. Concurrent first
// requests for the same name block on a single load; a failed load is not
// cached, so the next Get retries it.
func (c *Cache) Get(ctx context.Context, name string) (Model, error) {
	c.mu.Lock()
	e, ok := c.models[name]
	if !ok {
		e = &modelEntry{}
		c.models[name] = e
	}
	c.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.model != nil {
		return e.model, nil
	}

	m, err := c.loader.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", name, err)
	}
	e.model = m
	return m, nil
}
