package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rashad2003/Student-Attendance-Management/core"
)

func TestConsoleRender(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewServiceMock(conf)

	body, err := svc.render(core.EmailMessage{
		To:          []mail.Address{{Name: "Parent", Address: "parent@example.com"}},
		Subject:     "Absence",
		TextContent: "absent today",
		HTMLContent: "<p>absent today</p>",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Subject: ["+conf.AppName+"] Absence")
	assert.Contains(t, body, `To: "Parent" <parent@example.com>`)
	assert.Contains(t, body, "text/plain")
	assert.Contains(t, body, "<p>absent today</p>")
}

func TestServiceMock(t *testing.T) {
	svc := NewServiceMock(core.NewTestConfig())

	svc.SendMessages(
		&core.EmailMessage{To: []mail.Address{{Address: "a@example.com"}}, TextContent: "hi"},
		&core.EmailMessage{TextContent: "no recipient"},
		&core.EmailMessage{To: []mail.Address{{Address: "b@example.com"}}},
	)
	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "a@example.com", sent[0].To[0].Address)

	svc.Reset()
	assert.Empty(t, svc.SentMessages())
}
