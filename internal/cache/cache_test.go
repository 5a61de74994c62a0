package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type reading struct {
	Speed float64 `json:"speed"`
	Dir   string  `json:"dir"`
}

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "wind", reading{Speed: 3.2, Dir: "SE"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got reading
	ok, err := m.Get(ctx, "wind", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Speed != 3.2 || got.Dir != "SE" {
		t.Errorf("unexpected value %+v", got)
	}

	ok, _ = m.Get(ctx, "rain", &got)
	if ok {
		t.Error("expected miss for unknown key")
	}
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Set(ctx, "moon", "FIRST_QUARTER", time.Hour)

	now = now.Add(59 * time.Minute)
	var phase string
	if ok, _ := m.Get(ctx, "moon", &phase); !ok || phase != "FIRST_QUARTER" {
		t.Fatalf("expected fresh hit, got %q ok=%v", phase, ok)
	}

	now = now.Add(time.Minute)
	if ok, _ := m.Get(ctx, "moon", &phase); ok {
		t.Error("expected entry to expire after its TTL")
	}
	if m.Len() != 0 {
		t.Errorf("expired entry should be evicted, %d left", m.Len())
	}
}

func TestMemory_DefaultTTL(t *testing.T) {
	m := NewMemory()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Set(ctx, "k", 1, 0)
	now = now.Add(DefaultTTL - time.Second)
	var v int
	if ok, _ := m.Get(ctx, "k", &v); !ok {
		t.Error("zero ttl should fall back to DefaultTTL")
	}
}

func TestNew_FallsBackToMemory(t *testing.T) {
	c := New(Config{Backend: "redis", RedisAddr: "127.0.0.1:1"}, zerolog.Nop())
	defer c.Close()
	if _, ok := c.(*Memory); !ok {
		t.Fatalf("expected memory fallback, got %T", c)
	}

	if _, ok := New(Config{}, zerolog.Nop()).(*Memory); !ok {
		t.Error("default backend should be memory")
	}
}

func TestRedis_DisabledIsNoop(t *testing.T) {
	r := &Redis{logger: zerolog.Nop(), disabled: true}
	ctx := context.Background()
	if err := r.Set(ctx, "k", 1, time.Minute); err != nil {
		t.Errorf("disabled set should be a no-op, got %v", err)
	}
	var v int
	if ok, err := r.Get(ctx, "k", &v); ok || err != nil {
		t.Errorf("disabled get should miss, got ok=%v err=%v", ok, err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
