// Package demodir is the offline stand-in for the hosted identity backend:
// a fixed directory of four role-tagged identities sharing one demo secret.
// It is selected once at startup when the identity backend is unconfigured.
package demodir

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/educhain/backend/core/actor"
)

// SharedSecret is the password accepted for every demo identity.
const SharedSecret = "password123"

const demoInstitutionID = "demo-central-high"

type directory struct {
	latency time.Duration
	byID    map[string]actor.Actor
	byEmail map[string]string // email -> ID
}

var _ actor.Directory = (*directory)(nil)

// New builds the fixed demo directory. latency is slept on every lookup to
// mimic provider round trips; pass 0 in tests.
func New(latency time.Duration) actor.Directory {
	// cost is deliberately low: these are throwaway demo identities
	hash, err := bcrypt.GenerateFromPassword([]byte(SharedSecret), bcrypt.MinCost)
	if err != nil {
		panic(err) // unreachable: bcrypt only fails on invalid cost
	}

	now := time.Now().UTC()
	actors := []actor.Actor{
		{ID: "demo-super-id", Name: "Platform Administrator", Email: "super@educhain.com", Role: actor.RoleSuperAdmin},
		{ID: "demo-admin-id", Name: "John School-Admin", Email: "admin@centralhigh.edu", Role: actor.RoleInstitutionAdmin, InstitutionID: demoInstitutionID},
		{ID: "demo-teacher-id", Name: "Dr. Sarah Wilson", Email: "teacher@centralhigh.edu", Role: actor.RoleTeacher, InstitutionID: demoInstitutionID},
		{ID: "demo-student-id", Name: "Alice Thompson", Email: "student@centralhigh.edu", Role: actor.RoleStudent, InstitutionID: demoInstitutionID},
	}

	dir := &directory{
		latency: latency,
		byID:    make(map[string]actor.Actor, len(actors)),
		byEmail: make(map[string]string, len(actors)),
	}
	for _, act := range actors {
		act.IsActive = true
		act.PasswordHash = hash
		act.CreatedAt = now
		act.UpdatedAt = now
		dir.byID[act.ID] = act
		dir.byEmail[act.Email] = act.ID
	}
	return dir
}

func (dir *directory) GetActorByID(ctx context.Context, id string) (actor.Actor, error) {
	if err := dir.sleep(ctx); err != nil {
		return actor.Actor{}, err
	}
	if act, ok := dir.byID[id]; ok {
		return act, nil
	}
	return actor.Actor{}, actor.ErrNotFound
}

func (dir *directory) GetActorByEmail(ctx context.Context, email string) (actor.Actor, error) {
	if err := dir.sleep(ctx); err != nil {
		return actor.Actor{}, err
	}
	if id, ok := dir.byEmail[email]; ok {
		return dir.byID[id], nil
	}
	return actor.Actor{}, actor.ErrNotFound
}

func (dir *directory) sleep(ctx context.Context) error {
	if dir.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(dir.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
