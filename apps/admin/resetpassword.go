package main

import (
	"context"
	"time"

	"github.com/educhain/backend/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	act, err := cli.actRepo.GetActorByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err := act.SetPassword(pwd); err != nil {
		return err
	}
	act.UpdatedAt = time.Now().UTC()
	if _, err := cli.actRepo.UpdateActor(ctx, act); err != nil {
		return err
	}
	return nil
}
