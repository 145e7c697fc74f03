package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/educhain/backend/core/actor"
)

type memoryEntry struct {
	actorID   string
	expiresAt time.Time
}

// memoryRegistry mirrors the redis registry for demo mode and tests, where no
// external service may be assumed.
type memoryRegistry struct {
	mu    sync.Mutex
	table map[string]memoryEntry
}

var _ actor.SessionRegistry = (*memoryRegistry)(nil)

func NewMemoryRegistry() actor.SessionRegistry {
	return &memoryRegistry{table: make(map[string]memoryEntry)}
}

func (reg *memoryRegistry) Register(_ context.Context, sid, actorID string, ttl time.Duration) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.table[sid] = memoryEntry{actorID: actorID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (reg *memoryRegistry) Lookup(_ context.Context, sid string) (string, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	entry, ok := reg.table[sid]
	if !ok {
		return "", actor.ErrSessionNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(reg.table, sid)
		return "", actor.ErrSessionNotFound
	}
	return entry.actorID, nil
}

func (reg *memoryRegistry) Revoke(_ context.Context, sid string) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.table, sid)
	return nil
}
