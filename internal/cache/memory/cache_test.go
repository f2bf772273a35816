package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prn-tf/alexander-iam/internal/repository"
)

func TestCache_SetGet(t *testing.T) {
	c := NewCache()
	defer c.Stop()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("value"), 0); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("got %q, want %q", got, "value")
	}

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, repository.ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestCache_GetReturnsCopy(t *testing.T) {
	c := NewCache()
	defer c.Stop()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("original"), 0); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	// Mutating the returned slice must not reach the stored entry.
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	for i := range got {
		got[i] = 'x'
	}

	again, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if string(again) != "original" {
		t.Errorf("cached entry was corrupted through the returned slice: got %q", again)
	}
}

func TestCache_SetCopiesValue(t *testing.T) {
	c := NewCache()
	defer c.Stop()
	ctx := context.Background()

	value := []byte("original")
	if err := c.Set(ctx, "k", value, 0); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	// Mutating the caller's slice after Set must not reach the store.
	for i := range value {
		value[i] = 'x'
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("cached entry was corrupted through the caller's slice: got %q", got)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := NewCache()
	defer c.Stop()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, repository.ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestCache_IncrementAndExpire(t *testing.T) {
	c := NewCache()
	defer c.Stop()
	ctx := context.Background()

	n, err := c.Increment(ctx, "counter", 1)
	if err != nil || n != 1 {
		t.Fatalf("expected first increment to yield 1, got n=%d err=%v", n, err)
	}
	n, err = c.Increment(ctx, "counter", 2)
	if err != nil || n != 3 {
		t.Fatalf("expected increment to yield 3, got n=%d err=%v", n, err)
	}

	if err := c.Expire(ctx, "counter", 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected expire error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	n, err = c.Increment(ctx, "counter", 1)
	if err != nil || n != 1 {
		t.Fatalf("expected counter to restart after expiry, got n=%d err=%v", n, err)
	}
}
