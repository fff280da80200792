package transcribe

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type countingLoader struct {
	loads atomic.Int32
	fail  atomic.Bool
}

func (l *countingLoader) Load(ctx context.Context, name string) (Model, error) {
	l.loads.Add(1)
	if l.fail.Load() {
		return nil, errors.New("model unavailable")
	}
	return fakeModel{name: name}, nil
}

type fakeModel struct {
	name string
}

func (m fakeModel) Transcribe(ctx context.Context, filePath string) (string, error) {
	return "text from " + m.name, nil
}

func TestCache_Get(t *testing.T) {
	t.Run("loads once per name", func(t *testing.T) {
		loader := &countingLoader{}
		cache := NewCache(loader)

		m1, err := cache.Get(context.Background(), "base")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		m2, err := cache.Get(context.Background(), "base")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if m1 != m2 {
			t.Error("expected the same handle on repeat Get")
		}
		if got := loader.loads.Load(); got != 1 {
			t.Errorf("loader ran %d times, want 1", got)
		}
	})

	t.Run("distinct names load separately", func(t *testing.T) {
		loader := &countingLoader{}
		cache := NewCache(loader)

		if _, err := cache.Get(context.Background(), "base"); err != nil {
			t.Fatalf("get base: %v", err)
		}
		if _, err := cache.Get(context.Background(), "large"); err != nil {
			t.Fatalf("get large: %v", err)
		}
		if got := loader.loads.Load(); got != 2 {
			t.Errorf("loader ran %d times, want 2", got)
		}
	})

	t.Run("concurrent first requests construct once", func(t *testing.T) {
		loader := &countingLoader{}
		cache := NewCache(loader)

		const n = 16
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := cache.Get(context.Background(), "base"); err != nil {
					t.Errorf("get: %v", err)
				}
			}()
		}
		wg.Wait()

		if got := loader.loads.Load(); got != 1 {
			t.Errorf("loader ran %d times under concurrency, want 1", got)
		}
	})

	t.Run("failed loads are retried", func(t *testing.T) {
		loader := &countingLoader{}
		loader.fail.Store(true)
		cache := NewCache(loader)

		if _, err := cache.Get(context.Background(), "base"); err == nil {
			t.Fatal("expected load error")
		}

		loader.fail.Store(false)
		m, err := cache.Get(context.Background(), "base")
		if err != nil {
			t.Fatalf("get after recovery: %v", err)
		}
		if m == nil {
			t.Fatal("nil model after recovery")
		}
		if got := loader.loads.Load(); got != 2 {
			t.Errorf("loader ran %d times, want 2", got)
		}
	})
}
