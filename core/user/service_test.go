package user_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/user"
	inmemdb "github.com/Rashad2003/Student-Attendance-Management/storage/database/inmem"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := user.NewService(inmemdb.NewUserRepository(inmemdb.Open()))

	usr, err := svc.Create(ctx, user.NewUser{Name: "Jane", Email: "jane@example.com", Password: "s3cure!pass", Role: user.RoleFaculty})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword("s3cure!pass"))

	got, err := svc.GetByEmail(ctx, " JANE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	// uniqueness ignores the excluded user
	assert.NoError(t, svc.CheckUniqueness(ctx, "jane@example.com", usr))
	err = svc.CheckUniqueness(ctx, "jane@example.com")
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "email", vErr.Fields[0].Field)

	inactive := false
	usr, err = svc.Update(ctx, usr.ID, user.UpdateUser{Name: "Jane D", Email: usr.Email, Role: user.RoleAdmin, IsActive: &inactive, Password: "n3w!secret"})
	require.NoError(t, err)
	assert.Equal(t, "Jane D", usr.Name)
	assert.True(t, usr.IsAdmin())
	assert.False(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword("n3w!secret"))

	usr, err = svc.SetLastLogin(ctx, usr)
	require.NoError(t, err)
	assert.False(t, usr.LastLogin.IsZero())

	require.NoError(t, svc.Delete(ctx, usr.ID))
	_, err = svc.GetByID(ctx, usr.ID)
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	_, err = svc.GetByID(ctx, "")
	assert.Equal(t, user.ErrNotFound, err)
}
