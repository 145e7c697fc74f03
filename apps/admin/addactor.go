package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/educhain/backend/core"
	"github.com/educhain/backend/core/actor"
)

// addActor updates or creates an actor.Actor
func (cli *commandLine) addActor(name, email, pwd string, role actor.Role, institutionID string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	act, err := cli.actRepo.GetActorByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != actor.ErrNotFound {
			return err
		}
		act = actor.Actor{
			Email:     email,
			CreatedAt: now,
		}
	}
	act.Name = name
	act.Role = role
	act.InstitutionID = institutionID
	act.IsActive = true
	act.UpdatedAt = now
	if err := act.SetPassword(pwd); err != nil {
		return err
	}

	if act.ID == "" {
		_, err = cli.actRepo.CreateActor(ctx, act)
	} else {
		_, err = cli.actRepo.UpdateActor(ctx, act)
	}
	return err
}
