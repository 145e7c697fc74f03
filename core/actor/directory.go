package actor

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("actor not found")
	ErrEmailExists = errors.New("an actor with this email already exists")

	// ErrSessionNotFound is returned by a SessionRegistry when a credential
	// does not map to a live issued session (expired, revoked or never issued).
	ErrSessionNotFound = errors.New("session not found")
)

type (
	// Directory resolves Actor records. It is the single strategy seam between
	// the hosted identity backend and the fixed demo directory: the
	// implementation is chosen once at startup and injected, callers never
	// branch on configuration again.
	Directory interface {
		GetActorByID(ctx context.Context, id string) (Actor, error)
		GetActorByEmail(ctx context.Context, email string) (Actor, error)
	}

	// Repository is a writable Directory. Only the database-backed directory
	// implements it; demo mode runs read-only.
	Repository interface {
		Directory

		CheckEmailUniqueness(ctx context.Context, email string, excluded ...Actor) error
		CreateActor(ctx context.Context, act Actor) (Actor, error)
		UpdateActor(ctx context.Context, act Actor) (Actor, error)
		SetLastLogin(ctx context.Context, id string, t time.Time) error
	}

	// SessionRegistry tracks issued sessions so logout and token expiry can
	// invalidate credentials. Backed by redis in production, by an in-process
	// table in demo mode and tests.
	SessionRegistry interface {
		Register(ctx context.Context, sid, actorID string, ttl time.Duration) error
		Lookup(ctx context.Context, sid string) (actorID string, err error)
		Revoke(ctx context.Context, sid string) error
	}

	// CredentialStore persists the opaque credential between launches:
	// a local file in demo mode, the client's own storage when running behind
	// the HTTP API (in which case the store stays empty and credentials are
	// presented explicitly).
	CredentialStore interface {
		Load() (string, error) // "" when no credential is persisted
		Save(cred string) error
		Clear() error
	}
)
