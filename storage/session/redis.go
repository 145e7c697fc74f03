// Package sessionstore provides the issued-session registries backing logout
// revocation and resolve-time liveness checks.
package sessionstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/educhain/backend/core/actor"
)

const keyPrefix = "session:"

type redisRegistry struct {
	client *redis.Client
}

var _ actor.SessionRegistry = (*redisRegistry)(nil)

func NewRedisRegistry(client *redis.Client) actor.SessionRegistry {
	return &redisRegistry{client: client}
}

func (reg *redisRegistry) Register(ctx context.Context, sid, actorID string, ttl time.Duration) error {
	return errors.Wrap(reg.client.Set(ctx, keyPrefix+sid, actorID, ttl).Err(), "registering session")
}

func (reg *redisRegistry) Lookup(ctx context.Context, sid string) (string, error) {
	actorID, err := reg.client.Get(ctx, keyPrefix+sid).Result()
	if err != nil {
		if err == redis.Nil {
			return "", actor.ErrSessionNotFound
		}
		return "", errors.Wrap(err, "looking up session")
	}
	return actorID, nil
}

func (reg *redisRegistry) Revoke(ctx context.Context, sid string) error {
	return errors.Wrap(reg.client.Del(ctx, keyPrefix+sid).Err(), "revoking session")
}
