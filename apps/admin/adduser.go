package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/user"
)

var errInvalidRole = errors.New("invalid role")

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(ctx context.Context, name, email, role, pwd string) error {
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	if user.RolePriority(role) == 0 {
		return errInvalidRole
	}

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	isNew := false
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			ID:        uuid.NewString(),
			Email:     email,
			CreatedAt: now,
		}
		isNew = true
	}
	usr.Name = name
	usr.Role = role
	usr.IsActive = true
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if isNew {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	}
	if err != nil {
		return err
	}
	cli.logger.Info("user saved", map[string]interface{}{"email": usr.Email, "role": usr.Role})
	return nil
}
