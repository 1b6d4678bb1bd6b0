package main

import (
	"context"
	"time"

	"github.com/gradhub/thesisdesk/core"
	"github.com/gradhub/thesisdesk/core/user"
)

// createUser updates or creates a user.User
func (cli *commandLine) createUser(name, uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	name = core.CleanString(name)
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		if usr, err = cli.usrRepo.GetUserByUsernameOrEmail(ctx, email); err != nil && err != user.ErrNotFound {
			return err
		}
	}

	exists := usr.ID != ""
	usr.Name = name
	usr.Username = uname
	usr.Email = email
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = now

	active := true
	if exists {
		_, err = cli.usrRepo.UpdateUser(ctx, usr, &active)
		return err
	}
	usr.IsActive = &active
	usr.CreatedAt = now
	_, err = cli.usrRepo.CreateUser(ctx, usr)
	return err
}
