package lru

import (
	"testing"

	"github.com/haukened/rr-names/internal/names/domain"
)

func TestDecisionCache_HitMissAndPut(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	d := domain.Decision{Allowed: false, Name: "admin", Collection: "all", MatchedIn: "all"}

	if _, ok := c.Get("all\x00admin"); ok {
		t.Fatalf("expected miss before put")
	}

	c.Put("all\x00admin", d)

	got, ok := c.Get("all\x00admin")
	if !ok || got.Allowed || got.MatchedIn != "all" {
		t.Fatalf("unexpected get: ok=%v got=%+v", ok, got)
	}
	hits, misses, _ := c.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("hits=%d misses=%d; want 1/1", hits, misses)
	}
}

func TestDecisionCache_EvictionAndLen(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("a", domain.Decision{Allowed: true})
	c.Put("b", domain.Decision{Allowed: true})
	if got := c.Len(); got != 2 {
		t.Fatalf("len=%d want=2", got)
	}
	c.Put("c", domain.Decision{Allowed: true})
	if got := c.Len(); got != 2 {
		t.Fatalf("len=%d want=2 after eviction", got)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected least recently used key to be evicted")
	}
	if _, _, ev := c.Stats(); ev != 1 {
		t.Fatalf("evictions=%d want=1", ev)
	}
}

func TestDisabledCache(t *testing.T) {
	c, err := New(0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("a", domain.Decision{Allowed: true})
	if _, ok := c.Get("a"); ok {
		t.Fatalf("disabled cache must always miss")
	}
	if c.Len() != 0 {
		t.Fatalf("disabled cache must stay empty")
	}
	if h, m, e := c.Stats(); h != 0 || m != 0 || e != 0 {
		t.Fatalf("disabled cache must not count: %d %d %d", h, m, e)
	}
}
