package notify_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/notify"
	"github.com/Rashad2003/Student-Attendance-Management/core/student"
	emailsvc "github.com/Rashad2003/Student-Attendance-Management/services/email"
	smssvc "github.com/Rashad2003/Student-Attendance-Management/services/sms"
	inmemdb "github.com/Rashad2003/Student-Attendance-Management/storage/database/inmem"
	"github.com/Rashad2003/Student-Attendance-Management/testutil"
)

func TestNotifyParent(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewStudentRepository(inmemdb.Open())
	smsMock := smssvc.NewServiceMock()
	mailMock := emailsvc.NewServiceMock(core.NewTestConfig())
	svc := notify.NewService(student.NewService(repo), smsMock, mailMock)

	withPhone := testutil.CreateStudent(t, repo, "Asha", "CSE001", "CSE", "3", "A", "+919800000001")
	noPhone := testutil.CreateStudent(t, repo, "Ravi", "CSE002", "CSE", "3", "A", "")

	withEmail := testutil.CreateStudent(t, repo, "Meena", "CSE003", "CSE", "3", "A", "+919800000003")
	withEmail.Email = "parent@example.com"
	_, err := repo.UpdateStudent(ctx, withEmail)
	require.NoError(t, err)

	t.Run("unknown student", func(t *testing.T) {
		assert.Equal(t, notify.ErrNoPhone, svc.NotifyParent(ctx, "missing", "hello"))
		assert.Empty(t, smsMock.SentMessages())
	})

	t.Run("missing phone", func(t *testing.T) {
		assert.Equal(t, notify.ErrNoPhone, svc.NotifyParent(ctx, noPhone.ID, "hello"))
		assert.Empty(t, smsMock.SentMessages())
	})

	t.Run("transport error is returned as is", func(t *testing.T) {
		defer smsMock.Reset()
		smsMock.Err = errors.New("The 'To' number +919800000001 is not a valid phone number.")
		err := svc.NotifyParent(ctx, withPhone.ID, "hello")
		require.Error(t, err)
		assert.Equal(t, "The 'To' number +919800000001 is not a valid phone number.", err.Error())
	})

	t.Run("sms only", func(t *testing.T) {
		defer smsMock.Reset()
		require.NoError(t, svc.NotifyParent(ctx, withPhone.ID, "Asha was absent today"))
		assert.Equal(t, []core.SMSMessage{{To: "+919800000001", Body: "Asha was absent today"}}, smsMock.SentMessages())
		assert.Empty(t, mailMock.SentMessages())
	})

	t.Run("sms and email copy", func(t *testing.T) {
		defer smsMock.Reset()
		defer mailMock.Reset()
		require.NoError(t, svc.NotifyParent(ctx, withEmail.ID, "Meena was absent today"))
		assert.Len(t, smsMock.SentMessages(), 1)

		mails := mailMock.SentMessages()
		require.Len(t, mails, 1)
		assert.Equal(t, "parent@example.com", mails[0].To[0].Address)
		assert.Equal(t, "Message about Meena (CSE003)", mails[0].Subject)
		assert.Equal(t, "Meena was absent today", mails[0].TextContent)
	})
}
