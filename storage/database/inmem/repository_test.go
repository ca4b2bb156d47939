package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rashad2003/Student-Attendance-Management/core/attendance"
	"github.com/Rashad2003/Student-Attendance-Management/testutil"
)

func TestRepositories(t *testing.T) {
	db := Open()
	testutil.RepositoryTest{
		Users:      NewUserRepository(db),
		Students:   NewStudentRepository(db),
		Attendance: NewAttendanceRepository(db),
		Reset:      func(*testing.T) { db.Reset() },
	}.Run(t)
}

func TestAttendanceRepository_isolation(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(Open())
	key := attendance.Key{Department: "CSE", Year: "3", Section: "A", Semester: "5"}
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	day := attendance.Day{
		ID:  "d1",
		Key: key, Date: date,
		Students: []attendance.StudentEntry{{
			StudentID: "s1",
			Periods:   []attendance.PeriodEntry{{PeriodNumber: "1", Status: attendance.StatusPresent}},
		}},
	}
	require.NoError(t, repo.InsertDay(ctx, day))

	// mutating the caller's copies never leaks into the table
	day.Students[0].Periods[0].Status = attendance.StatusAbsent
	got, err := repo.GetDay(ctx, key, date)
	require.NoError(t, err)
	got.Students[0].Periods[0].Subject = "Maths"

	again, err := repo.GetDay(ctx, key, date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, again.Students[0].Periods[0].Status)
	assert.Empty(t, again.Students[0].Periods[0].Subject)
}
