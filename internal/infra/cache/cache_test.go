package cache_test

import (
	"testing"
	"time"

	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/infra/cache"
	"github.com/boddenberg/finance-tracker/internal/port"
)

var _ port.Cache[*domain.Goal] = (*cache.InMemory[*domain.Goal])(nil)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[*domain.IncomeEntry](5 * time.Minute)
	defer c.Close()

	c.Set("u1:income:key1", &domain.IncomeEntry{ID: "inc-1"})
	val, ok := c.Get("u1:income:key1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val.ID != "inc-1" {
		t.Errorf("expected 'inc-1', got '%s'", val.ID)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	if _, ok := c.Get("nonexistent"); ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](50 * time.Millisecond)
	defer c.Close()

	c.Set("key1", "value1")
	time.Sleep(100 * time.Millisecond)

	if _, ok := c.Get("key1"); ok {
		t.Fatal("expected cache entry to be expired")
	}
	if n := c.Len(); n != 0 {
		t.Errorf("expected 0 live entries, got %d", n)
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	c.Delete("key1")

	if _, ok := c.Get("key1"); ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := cache.New[string](time.Minute)
	c.Close()
	c.Close()

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("cache should remain usable after Close")
	}
}
