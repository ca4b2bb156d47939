package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/user"
	logsvc "github.com/Rashad2003/Student-Attendance-Management/services/logger"
	inmemdb "github.com/Rashad2003/Student-Attendance-Management/storage/database/inmem"
	"github.com/Rashad2003/Student-Attendance-Management/testutil"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()
	usrRepo = inmemdb.NewUserRepository(inmemdb.Open())

	return &commandLine{
		logger:  logsvc.NewRollbarLogger(io.Discard, "ADMIN", core.NewTestConfig()),
		usrRepo: usrRepo,
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	extra   interface{}
}

type extra struct {
	pwd string
}

func mockPassword(tt cliTest) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		if extra, ok := tt.extra.(extra); ok {
			return []byte(extra.pwd), nil
		}
		return nil, nil
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	existing := testutil.CreateUser(t, usrRepo, "Old Name", "old@test.cd", "mdr", user.RoleFaculty, false)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"adduser", "-lol"}, wantErr: errHelp},
		{name: "email but no name", args: []string{"adduser", "-email", "a@test.cd"}, extra: extra{pwd: "lol"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-name", "A", "-email", "a@test.cd"}, wantErr: errHelp},
		{
			name:    "invalid role",
			args:    []string{"adduser", "-name", "A", "-email", "a@test.cd", "-role", "Student"},
			extra:   extra{pwd: "lol"},
			wantErr: errInvalidRole,
		},
		{name: "new admin", args: []string{"adduser", "-name", "Admin", "-email", " Admin@Test.cd "}, extra: extra{pwd: "lol"}},
		{
			name:  "new faculty",
			args:  []string{"adduser", "-name", "Prof", "-email", "prof@test.cd", "-role", user.RoleFaculty},
			extra: extra{pwd: "lol"},
		},
		{
			name:  "existing user",
			args:  []string{"adduser", "-name", "New Name", "-email", existing.Email},
			extra: extra{pwd: "lmao"},
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	ctx := context.Background()

	admin, err := usrRepo.GetUser(ctx, user.GetFilter{Email: "admin@test.cd"})
	if err != nil {
		t.Fatalf("GetUser() failed, %v", err)
	}
	if !admin.IsAdmin() || !admin.IsActive || admin.CheckPassword("lol") != nil {
		t.Errorf("unexpected admin %+v", admin)
	}

	prof, err := usrRepo.GetUser(ctx, user.GetFilter{Email: "prof@test.cd"})
	if err != nil {
		t.Fatalf("GetUser() failed, %v", err)
	}
	if prof.Role != user.RoleFaculty {
		t.Errorf("prof.Role = %s, want %s", prof.Role, user.RoleFaculty)
	}

	updated, err := usrRepo.GetUser(ctx, user.GetFilter{ID: existing.ID})
	if err != nil {
		t.Fatalf("GetUser() failed, %v", err)
	}
	if updated.Name != "New Name" || !updated.IsAdmin() || !updated.IsActive {
		t.Errorf("unexpected updated user %+v", updated)
	}
	if updated.CheckPassword("lmao") != nil {
		t.Error("failed to update password")
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "awe@test.cd", "mdr", user.RoleFaculty, true)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, extra: extra{pwd: "lol"}},
		{name: "reset with upper-cased email", args: []string{"resetpassword", "-email", "AWE@test.cd"}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
				if err != nil {
					t.Fatalf("GetUser() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
				usr = refreshedUsr
			} else if !errors.Is(err, tt.wantErr) {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_createIndexes(t *testing.T) {
	cli := setup(t)
	args := []string{"admin", "createindexes"}

	if err := cli.run(args); err != errNoIndexesSupport {
		t.Errorf("cli.run() error = %v, wantErr %v", err, errNoIndexesSupport)
	}

	called := false
	cli.createIndexes = func(context.Context) error {
		called = true
		return nil
	}
	if err := cli.run(args); err != nil {
		t.Errorf("cli.run() unexpected error = %v", err)
	}
	if !called {
		t.Error("createIndexes was not called")
	}

	errBoom := errors.New("boom")
	cli.createIndexes = func(context.Context) error { return errBoom }
	if err := cli.run(args); err != errBoom {
		t.Errorf("cli.run() error = %v, wantErr %v", err, errBoom)
	}
}
