package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/educhain/backend/core/actor"
)

func newTestRegistry(t *testing.T) (actor.SessionRegistry, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisRegistry(client), mr
}

func TestRedisRegistry(t *testing.T) {
	ctx := context.Background()
	reg, mr := newTestRegistry(t)

	if err := reg.Register(ctx, "sid-1", "act-1", time.Minute); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	actorID, err := reg.Lookup(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if actorID != "act-1" {
		t.Errorf("Lookup() = %v, want %v", actorID, "act-1")
	}

	if _, err = reg.Lookup(ctx, "unknown"); errors.Cause(err) != actor.ErrSessionNotFound {
		t.Errorf("Lookup() error = %v, want %v", err, actor.ErrSessionNotFound)
	}

	if err = reg.Revoke(ctx, "sid-1"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if _, err = reg.Lookup(ctx, "sid-1"); errors.Cause(err) != actor.ErrSessionNotFound {
		t.Errorf("Lookup() after Revoke() error = %v, want %v", err, actor.ErrSessionNotFound)
	}

	// revoking an unknown session is a no-op
	if err = reg.Revoke(ctx, "unknown"); err != nil {
		t.Errorf("Revoke() error = %v", err)
	}

	// sessions expire with their token
	if err = reg.Register(ctx, "sid-2", "act-2", time.Minute); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err = reg.Lookup(ctx, "sid-2"); errors.Cause(err) != actor.ErrSessionNotFound {
		t.Errorf("Lookup() after expiry error = %v, want %v", err, actor.ErrSessionNotFound)
	}
}

func TestMemoryRegistry(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	if err := reg.Register(ctx, "sid-1", "act-1", time.Minute); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	actorID, err := reg.Lookup(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if actorID != "act-1" {
		t.Errorf("Lookup() = %v, want %v", actorID, "act-1")
	}

	if _, err = reg.Lookup(ctx, "unknown"); err != actor.ErrSessionNotFound {
		t.Errorf("Lookup() error = %v, want %v", err, actor.ErrSessionNotFound)
	}

	if err = reg.Revoke(ctx, "sid-1"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if _, err = reg.Lookup(ctx, "sid-1"); err != actor.ErrSessionNotFound {
		t.Errorf("Lookup() after Revoke() error = %v, want %v", err, actor.ErrSessionNotFound)
	}

	// already expired
	if err = reg.Register(ctx, "sid-2", "act-2", -time.Second); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err = reg.Lookup(ctx, "sid-2"); err != actor.ErrSessionNotFound {
		t.Errorf("Lookup() after expiry error = %v, want %v", err, actor.ErrSessionNotFound)
	}
}
