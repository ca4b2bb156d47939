package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

// copyDay deep copies day so that callers never share slices with the table.
func copyDay(day attendance.Day) attendance.Day {
	students := make([]attendance.StudentEntry, len(day.Students))
	for i, entry := range day.Students {
		entry.Periods = append([]attendance.PeriodEntry(nil), entry.Periods...)
		students[i] = entry
	}
	day.Students = students
	return day
}

func (repo *attendanceRepository) find(key attendance.Key, date time.Time) (*attendance.Day, bool) {
	from, to := core.StartOfDay(date), core.EndOfDay(date)
	for _, day := range repo.db.table {
		if day.Key == key && !day.Date.Before(from) && !day.Date.After(to) {
			return day, true
		}
	}
	return nil, false
}

func (repo *attendanceRepository) GetDay(_ context.Context, key attendance.Key, date time.Time) (attendance.Day, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if day, ok := repo.find(key, date); ok {
		return copyDay(*day), nil
	}
	return attendance.Day{}, attendance.ErrNoRecord
}

func (repo *attendanceRepository) InsertDay(_ context.Context, day attendance.Day) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.find(day.Key, day.Date); ok {
		return attendance.ErrVersionConflict
	}
	day = copyDay(day)
	day.Version = 1
	repo.db.table[day.ID] = &day
	return nil
}

func (repo *attendanceRepository) ReplaceDay(_ context.Context, day attendance.Day) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[day.ID]
	if !ok || stored.Version != day.Version {
		return attendance.ErrVersionConflict
	}
	day = copyDay(day)
	day.Version++
	repo.db.table[day.ID] = &day
	return nil
}

func (repo *attendanceRepository) QueryDays(_ context.Context, filter attendance.DayFilter) ([]attendance.Day, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	days := make([]attendance.Day, 0)
	for _, day := range repo.db.table {
		if !matchClass(filter.Class, day.Department, day.Year, day.Section) {
			continue
		}
		if !filter.From.IsZero() && day.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && day.Date.After(filter.To) {
			continue
		}
		if filter.StudentID != "" {
			if _, ok := day.Entry(filter.StudentID); !ok {
				continue
			}
		}
		days = append(days, copyDay(*day))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}
