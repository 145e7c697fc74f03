package dummydb

import (
	"sync"

	"github.com/educhain/backend/core/actor"
)

type (
	DB struct {
		actors *actorTable
	}

	actorTable struct {
		sync.RWMutex
		table map[string]*actor.Actor
	}
)

func Open() (*DB, error) {
	db := &DB{
		actors: &actorTable{table: make(map[string]*actor.Actor)},
	}
	return db, nil
}
