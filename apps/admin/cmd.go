package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/educhain/backend/core"
	"github.com/educhain/backend/core/actor"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB
	conf    *core.Config
	actRepo actor.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addactor -name NAME -email EMAIL -role ROLE [-institution ID] - add or update an actor")
	fmt.Println("  resetpassword -email EMAIL - reset an actor's password")
	fmt.Println("  migrate COMMAND [args] - manage DB migrations")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addActorCmd := flag.NewFlagSet("addactor", flag.ExitOnError)
	addActorName := addActorCmd.String("name", "", "The actor's full name.")
	addActorEmail := addActorCmd.String("email", "", "The actor's email. The password will be prompted next.")
	addActorRole := addActorCmd.String("role", "", "One of: super_admin, institution_admin, teacher, student.")
	addActorInst := addActorCmd.String("institution", "", "The actor's institution ID. Not set for super_admin.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The actor's email. The password will be prompted next.")

	switch args[1] {
	case "addactor":
		if err := addActorCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addActorName == "" || *addActorEmail == "" || *addActorRole == "" {
			addActorCmd.Usage()
			return errHelp
		}
		role, err := actor.ParseRole(*addActorRole)
		if err != nil {
			return err
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				addActorCmd.Usage()
			}
			return err
		}
		return cli.addActor(*addActorName, *addActorEmail, pwd, role, *addActorInst)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				resetPasswordCmd.Usage()
			}
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}
