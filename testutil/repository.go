package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rashad2003/Student-Attendance-Management/core/attendance"
	"github.com/Rashad2003/Student-Attendance-Management/core/student"
	"github.com/Rashad2003/Student-Attendance-Management/core/user"
)

// RepositoryTest checks the behaviour every storage engine must share.
// reset is called before each test to start from an empty database.
type RepositoryTest struct {
	Users      user.Repository
	Students   student.Repository
	Attendance attendance.Repository
	Reset      func(t *testing.T)
}

func (rt RepositoryTest) Run(t *testing.T) {
	t.Run("users", rt.testUsers)
	t.Run("students", rt.testStudents)
	t.Run("attendance", rt.testAttendance)
}

func (rt RepositoryTest) testUsers(t *testing.T) {
	rt.Reset(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	jane := CreateUser(t, rt.Users, "Jane Doe", "jane@test.cd", "", user.RoleAdmin, true, now.Add(-time.Hour))
	john := CreateUser(t, rt.Users, "John", "john@test.cd", "", user.RoleFaculty, false, now)

	got, err := rt.Users.GetUser(ctx, user.GetFilter{Email: "jane@test.cd"})
	require.NoError(t, err)
	assert.Equal(t, jane.ID, got.ID)

	_, err = rt.Users.GetUser(ctx, user.GetFilter{ID: uuid.NewString()})
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))

	inactive := false
	tests := []struct {
		name   string
		filter user.QueryFilter
		want   []string
	}{
		{name: "all, newest first", want: []string{john.ID, jane.ID}},
		{name: "search name", filter: user.QueryFilter{Search: "DOE"}, want: []string{jane.ID}},
		{name: "search email", filter: user.QueryFilter{Search: "john@"}, want: []string{john.ID}},
		{name: "role", filter: user.QueryFilter{Role: user.RoleAdmin}, want: []string{jane.ID}},
		{name: "inactive", filter: user.QueryFilter{IsActive: &inactive}, want: []string{john.ID}},
		{name: "no match", filter: user.QueryFilter{Search: "lol"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := rt.Users.QueryUsers(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(users))
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	john.Name = "Johnny"
	_, err = rt.Users.UpdateUser(ctx, john)
	require.NoError(t, err)
	got, err = rt.Users.GetUser(ctx, user.GetFilter{ID: john.ID})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", got.Name)

	require.NoError(t, rt.Users.DeleteUsers(ctx, john.ID, jane.ID))
	users, err := rt.Users.QueryUsers(ctx, user.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func (rt RepositoryTest) testStudents(t *testing.T) {
	rt.Reset(t)
	ctx := context.Background()

	s2 := CreateStudent(t, rt.Students, "Ravi", "CSE002", "CSE", "3", "A", "+919800000002")
	s1 := CreateStudent(t, rt.Students, "Asha", "CSE001", "Computer Science (CSE)", "3", "A", "+919800000001")
	ece := CreateStudent(t, rt.Students, "Meena", "ECE001", "ECE", "3", "A", "+919800000003")
	CreateStudent(t, rt.Students, "Kiran", "CSE101", "CSE", "2", "A", "+919800000004")

	tests := []struct {
		name   string
		filter student.ClassFilter
		want   []string
	}{
		{name: "department substring, ignoring case", filter: student.ClassFilter{Department: "cse", Year: "3", Section: "A"}, want: []string{s1.ID, s2.ID}},
		{name: "department is not a pattern", filter: student.ClassFilter{Department: "(CSE)", Year: "3"}, want: []string{s1.ID}},
		{name: "year is exact", filter: student.ClassFilter{Year: "3"}, want: []string{s1.ID, s2.ID, ece.ID}},
		{name: "section is exact", filter: student.ClassFilter{Section: "a"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stds, err := rt.Students.QueryStudents(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(stds))
			for _, s := range stds {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	got, err := rt.Students.GetStudent(ctx, student.GetFilter{Register: "ECE001"})
	require.NoError(t, err)
	assert.Equal(t, ece.ID, got.ID)

	require.NoError(t, rt.Students.DeleteStudent(ctx, ece.ID))
	_, err = rt.Students.GetStudent(ctx, student.GetFilter{ID: ece.ID})
	assert.Equal(t, student.ErrNotFound, errors.Cause(err))
	assert.Equal(t, student.ErrNotFound, errors.Cause(rt.Students.DeleteStudent(ctx, ece.ID)))
}

func (rt RepositoryTest) testAttendance(t *testing.T) {
	rt.Reset(t)
	ctx := context.Background()
	repo := rt.Attendance

	key := attendance.Key{Department: "CSE", Year: "3", Section: "A", Semester: "5"}
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	newDay := func(key attendance.Key, date time.Time, studentIDs ...string) attendance.Day {
		day := attendance.Day{
			ID:        uuid.NewString(),
			Key:       key,
			Date:      date,
			CreatedAt: date,
			UpdatedAt: date,
			Students:  []attendance.StudentEntry{},
		}
		for _, id := range studentIDs {
			day.Students = append(day.Students, attendance.StudentEntry{
				StudentID:  id,
				Department: key.Department,
				Year:       key.Year,
				Section:    key.Section,
				Periods:    []attendance.PeriodEntry{{PeriodNumber: "1", Subject: "Maths", Status: attendance.StatusPresent}},
			})
		}
		return day
	}

	_, err := repo.GetDay(ctx, key, date)
	assert.Equal(t, attendance.ErrNoRecord, errors.Cause(err))

	day := newDay(key, date, "s1")
	require.NoError(t, repo.InsertDay(ctx, day))

	// a second day for the same class and date is a conflict
	err = repo.InsertDay(ctx, newDay(key, date.Add(3*time.Hour), "s2"))
	assert.Equal(t, attendance.ErrVersionConflict, errors.Cause(err))

	got, err := repo.GetDay(ctx, key, date.Add(23*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, day.ID, got.ID)
	assert.Equal(t, int64(1), got.Version)
	require.Len(t, got.Students, 1)
	assert.Equal(t, attendance.PeriodNumber("1"), got.Students[0].Periods[0].PeriodNumber)

	// other semester, other day
	_, err = repo.GetDay(ctx, attendance.Key{Department: "CSE", Year: "3", Section: "A", Semester: "6"}, date)
	assert.Equal(t, attendance.ErrNoRecord, errors.Cause(err))
	_, err = repo.GetDay(ctx, key, date.AddDate(0, 0, 1))
	assert.Equal(t, attendance.ErrNoRecord, errors.Cause(err))

	// conditional replace
	stale := got
	got.Students = append(got.Students, newDay(key, date, "s2").Students...)
	require.NoError(t, repo.ReplaceDay(ctx, got))
	assert.Equal(t, attendance.ErrVersionConflict, errors.Cause(repo.ReplaceDay(ctx, stale)))

	got, err = repo.GetDay(ctx, key, date)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Len(t, got.Students, 2)

	ece := attendance.Key{Department: "ECE", Year: "3", Section: "A", Semester: "5"}
	require.NoError(t, repo.InsertDay(ctx, newDay(key, date.AddDate(0, 0, 2), "s1")))
	require.NoError(t, repo.InsertDay(ctx, newDay(key, date.AddDate(0, 0, -1), "s2")))
	require.NoError(t, repo.InsertDay(ctx, newDay(ece, date, "e1")))

	tests := []struct {
		name   string
		filter attendance.DayFilter
		want   []time.Time
	}{
		{
			name:   "class",
			filter: attendance.DayFilter{Class: student.ClassFilter{Department: "cs", Year: "3", Section: "A"}},
			want:   []time.Time{date.AddDate(0, 0, -1), date, date.AddDate(0, 0, 2)},
		},
		{
			name: "class and range",
			filter: attendance.DayFilter{
				Class: student.ClassFilter{Department: "CSE"},
				From:  date,
				To:    date.AddDate(0, 0, 1).Add(-time.Millisecond),
			},
			want: []time.Time{date},
		},
		{
			name:   "student",
			filter: attendance.DayFilter{StudentID: "s1"},
			want:   []time.Time{date, date.AddDate(0, 0, 2)},
		},
		{
			name:   "no match",
			filter: attendance.DayFilter{Class: student.ClassFilter{Department: "MECH"}},
			want:   []time.Time{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := repo.QueryDays(ctx, tt.filter)
			require.NoError(t, err)
			dates := make([]time.Time, 0, len(days))
			for _, d := range days {
				dates = append(dates, d.Date.UTC())
			}
			assert.Equal(t, tt.want, dates)
		})
	}
}
