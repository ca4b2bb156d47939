package logsvc

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/user"
)

func TestRollbarLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewRollbarLogger(buf, "API", core.NewTestConfig())
	logger.Enable(false)

	usr := user.User{ID: "u1", Name: "Jane", Email: "jane@example.com"}
	logger.Error("saving attendance day", errors.New("boom"), map[string]interface{}{"class": "CSE 3 A"}, usr)

	out := buf.String()
	assert.Contains(t, out, "saving attendance day")
	assert.Contains(t, out, "component=API")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "user=jane@example.com")
	assert.Contains(t, out, `class="CSE 3 A"`)

	buf.Reset()
	logger.Debug("debug line")
	assert.Contains(t, buf.String(), "level=debug")
}
