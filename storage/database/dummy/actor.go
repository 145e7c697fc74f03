package dummydb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/educhain/backend/core/actor"
)

type actorRepository struct {
	db *actorTable
}

var _ actor.Repository = (*actorRepository)(nil) // interface compliance check

func NewActorRepository(db *DB) actor.Repository {
	return &actorRepository{db: db.actors}
}

func (repo *actorRepository) query() []actor.Actor {
	actors := make([]actor.Actor, 0, len(repo.db.table))
	for _, act := range repo.db.table {
		actors = append(actors, *act)
	}
	return actors
}

func (repo *actorRepository) GetActorByID(_ context.Context, id string) (actor.Actor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if act, ok := repo.db.table[id]; ok {
		return *act, nil
	}
	return actor.Actor{}, actor.ErrNotFound
}

func (repo *actorRepository) GetActorByEmail(_ context.Context, email string) (actor.Actor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, act := range repo.query() {
		if act.Email == email {
			return act, nil
		}
	}
	return actor.Actor{}, actor.ErrNotFound
}

func (repo *actorRepository) CheckEmailUniqueness(_ context.Context, email string, excluded ...actor.Actor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, act := range repo.query() {
		if act.Email == email && !isExcluded(act, excluded) {
			return actor.ErrEmailExists
		}
	}
	return nil
}

func (repo *actorRepository) CreateActor(_ context.Context, act actor.Actor) (actor.Actor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if act.ID == "" {
		act.ID = uuid.New().String()
	}
	repo.db.table[act.ID] = &act
	return act, nil
}

func (repo *actorRepository) UpdateActor(_ context.Context, act actor.Actor) (actor.Actor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[act.ID]; !ok {
		return actor.Actor{}, actor.ErrNotFound
	}
	repo.db.table[act.ID] = &act
	return act, nil
}

func (repo *actorRepository) SetLastLogin(_ context.Context, id string, t time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	act, ok := repo.db.table[id]
	if !ok {
		return actor.ErrNotFound
	}
	act.LastLogin = t
	return nil
}

func isExcluded(act actor.Actor, excluded []actor.Actor) bool {
	for _, excl := range excluded {
		if act.ID == excl.ID {
			return true
		}
	}
	return false
}
