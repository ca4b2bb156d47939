package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-03-01", want: "2024-03-01"},
		{in: " 2024-03-01 ", want: "2024-03-01"},
		{in: "2024-03-01T23:30:00-05:00", want: "2024-03-01"},
		{in: "2024-03-01T00:30:00+05:30", want: "2024-03-01"},
		{in: "2024-03-01T10:00:00.123Z", want: "2024-03-01"},
		{in: "", wantErr: true},
		{in: "01/03/2024", wantErr: true},
		{in: "2024-02-30", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(DateLayout))
			assert.Equal(t, time.UTC, got.Location())
			assert.Zero(t, got.Hour())
		})
	}
}

func TestEndOfDay(t *testing.T) {
	d := time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, int(999*time.Millisecond), time.UTC), EndOfDay(d))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "CSE", CleanString("  CSE \t"))
	assert.Equal(t, "jane@example.com", CleanString(" Jane@Example.com ", true))
}

func TestNewTestConfig(t *testing.T) {
	conf := NewTestConfig()
	assert.True(t, conf.TestMode)
	assert.Equal(t, EngineMemory, conf.Database.Engine)
	assert.Equal(t, 8, conf.Attendance.Periods)
	assert.Equal(t, 5, conf.Attendance.MaxMergeRetries)
	assert.Equal(t, "noreply@localhost", conf.DefaultFromEmail().Address)
	assert.Equal(t, ":8000", conf.Server.Address())
}
