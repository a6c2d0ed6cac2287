package cache

import (
	"testing"
	"time"
)

func TestKey_DistinguishesModelAndProvider(t *testing.T) {
	base := Key("openai", "gpt-4o-mini", "dispute letter prompt")

	if Key("openai", "gpt-4o-mini", "dispute letter prompt") != base {
		t.Error("identical inputs must produce identical keys")
	}
	if Key("openai", "gpt-4o", "dispute letter prompt") == base {
		t.Error("different model must produce a different key")
	}
	if Key("ollama", "gpt-4o-mini", "dispute letter prompt") == base {
		t.Error("different provider must produce a different key")
	}
	if Key("openai", "gpt-4o-mini", "other prompt") == base {
		t.Error("different prompt must produce a different key")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	key := Key("openai", "gpt-4o-mini", "prompt")
	if _, ok := c.Get(key); ok {
		t.Fatal("empty cache must miss")
	}

	if err := c.Set(key, []byte("Dear Experian,"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := c.Get(key)
	if !ok || string(got) != "Dear Experian," {
		t.Errorf("Get = %q, %v", got, ok)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("deleted key must miss")
	}
}

func TestLayeredCache_DiskPromotion(t *testing.T) {
	dir := t.TempDir()

	c := NewLayeredCache(time.Minute, dir, time.Hour)
	key := Key("openai", "gpt-4o-mini", "prompt")
	if err := c.Set(key, []byte("cached letter"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A fresh layered cache over the same directory hits via disk.
	c2 := NewLayeredCache(time.Minute, dir, time.Hour)
	got, ok := c2.Get(key)
	if !ok || string(got) != "cached letter" {
		t.Errorf("disk-backed Get = %q, %v", got, ok)
	}
}
