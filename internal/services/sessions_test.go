package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessions(client)
	ctx := context.Background()

	token, err := store.Create(ctx, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !store.Valid(ctx, token) {
		t.Fatalf("session should be valid")
	}
	if store.Valid(ctx, "nope") {
		t.Fatalf("unknown session should be invalid")
	}

	mr.FastForward(2 * time.Hour)
	if store.Valid(ctx, token) {
		t.Fatalf("session should have expired")
	}

	token, _ = store.Create(ctx, time.Hour)
	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Valid(ctx, token) {
		t.Fatalf("deleted session should be invalid")
	}
}

func TestMemorySessions(t *testing.T) {
	store := NewMemorySessions()
	ctx := context.Background()

	token, err := store.Create(ctx, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !store.Valid(ctx, token) {
		t.Fatalf("session should be valid")
	}

	expired, _ := store.Create(ctx, -time.Minute)
	if store.Valid(ctx, expired) {
		t.Fatalf("expired session should be invalid")
	}

	store.Delete(ctx, token)
	if store.Valid(ctx, token) {
		t.Fatalf("deleted session should be invalid")
	}
}
