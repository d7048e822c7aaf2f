package redis

import (
	"context"
	"testing"
	"time"
)

func TestEventDeduplicator_FirstSeen(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	dedup := NewEventDeduplicator(client)
	ctx := context.Background()

	first, err := dedup.FirstSeen(ctx, "true_5511@c.us_ABC", 10*time.Minute)
	if err != nil || !first {
		t.Fatalf("expected first delivery, got first=%v err=%v", first, err)
	}

	again, err := dedup.FirstSeen(ctx, "true_5511@c.us_ABC", 10*time.Minute)
	if err != nil || again {
		t.Fatalf("expected redelivery to be detected, got first=%v err=%v", again, err)
	}

	mr.FastForward(11 * time.Minute)

	expired, err := dedup.FirstSeen(ctx, "true_5511@c.us_ABC", 10*time.Minute)
	if err != nil || !expired {
		t.Fatalf("expected id to be forgotten after ttl, got first=%v err=%v", expired, err)
	}
}

func TestEventDeduplicator_StoreDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	mr.Close()

	if _, err := NewEventDeduplicator(client).FirstSeen(context.Background(), "x", time.Minute); err == nil {
		t.Fatal("expected an error when redis is unreachable")
	}
}

func TestEventDeduplicator_Forget(t *testing.T) {
	client, _ := newTestRedisClient(t)
	defer client.Close()

	dedup := NewEventDeduplicator(client)
	ctx := context.Background()

	if _, err := dedup.FirstSeen(ctx, "evt", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := dedup.Forget(ctx, "evt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := dedup.FirstSeen(ctx, "evt", time.Minute)
	if err != nil || !first {
		t.Fatalf("expected a forgotten id to be new again, got first=%v err=%v", first, err)
	}
}
