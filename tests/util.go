package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/educhain/backend/core/actor"
)

func CreateActor(
	t *testing.T,
	repo actor.Repository,
	name, email, pwd string,
	role actor.Role,
	institutionID string,
	isActive bool,
	createdAt ...time.Time,
) actor.Actor {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	act := actor.Actor{
		Name:          name,
		Email:         email,
		Role:          role,
		InstitutionID: institutionID,
		IsActive:      isActive,
		CreatedAt:     tstamp,
		UpdatedAt:     tstamp,
	}
	if pwd != "" {
		if err := act.SetPassword(pwd); err != nil {
			t.Fatalf("CreateActor() failed: %v", err)
		}
	}
	act, err := repo.CreateActor(context.Background(), act)
	if err != nil {
		t.Fatalf("CreateActor() failed: %v", err)
	}
	return act
}
