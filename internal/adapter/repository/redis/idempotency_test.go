package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

func TestIdempotencyStore_ReserveNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)

	resp, err := store.Reserve(context.Background(), "k1", time.Minute)
	if err != nil || resp != nil {
		t.Fatalf("expected fresh reservation, got resp=%v err=%v", resp, err)
	}

	val, err := mr.Get(store.prefix + "k1")
	if err != nil || val != pendingMarker {
		t.Fatalf("expected placeholder, got %q err=%v", val, err)
	}
	if ttl := mr.TTL(store.prefix + "k1"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}
}

func TestIdempotencyStore_ReserveInFlight(t *testing.T) {
	client, _ := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, err := store.Reserve(ctx, "k1", time.Minute); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}

	if _, err := store.Reserve(ctx, "k1", time.Minute); !errors.Is(err, domain.ErrRequestInFlight) {
		t.Fatalf("expected ErrRequestInFlight, got %v", err)
	}
}

func TestIdempotencyStore_CompleteAndReplay(t *testing.T) {
	client, _ := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, err := store.Reserve(ctx, "k1", time.Minute); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	want := usecase.IdempotentResponse{StatusCode: 201, Body: []byte(`{"balance":"11"}`)}
	if err := store.Complete(ctx, "k1", want, time.Minute); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	got, err := store.Reserve(ctx, "k1", time.Minute)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if got == nil || got.StatusCode != 201 || string(got.Body) != string(want.Body) {
		t.Fatalf("unexpected replay %+v", got)
	}
}

func TestIdempotencyStore_Release(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, err := store.Reserve(ctx, "k1", time.Minute); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if err := store.Release(ctx, "k1"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if mr.Exists(store.prefix + "k1") {
		t.Fatal("reservation should be gone")
	}

	if resp, err := store.Reserve(ctx, "k1", time.Minute); err != nil || resp != nil {
		t.Fatalf("expected a new reservation, got resp=%v err=%v", resp, err)
	}
}

func TestIdempotencyStore_CorruptValue(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	if err := mr.Set(store.prefix+"k1", "{not json"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := store.Reserve(context.Background(), "k1", time.Minute); err == nil {
		t.Fatal("expected decode error")
	}
}
