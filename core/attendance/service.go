package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/student"
)

const (
	DefaultPeriods         = 8
	DefaultMaxMergeRetries = 5
)

var (
	// errors
	ErrNoRecord         = errors.New("no record found")
	ErrNoStudents       = errors.New("no students found for this class")
	ErrVersionConflict  = errors.New("attendance day was modified concurrently")
	ErrConcurrentUpdate = errors.New("attendance could not be saved: too many concurrent updates")
)

type (
	Repository interface {
		// GetDay returns the Day of key on the calendar date of date, or ErrNoRecord.
		GetDay(ctx context.Context, key Key, date time.Time) (Day, error)
		// InsertDay stores a new Day with version 1.
		// It fails with ErrVersionConflict if a Day already exists for the same key and date.
		InsertDay(ctx context.Context, day Day) error
		// ReplaceDay overwrites the stored Day if its version still equals day.Version,
		// and increments the stored version. Otherwise it fails with ErrVersionConflict.
		ReplaceDay(ctx context.Context, day Day) error
		// QueryDays returns the Days matching filter, ordered by date.
		QueryDays(ctx context.Context, filter DayFilter) ([]Day, error)
	}

	ServiceInterface interface {
		Mark(ctx context.Context, mark Mark) error
		Lookup(ctx context.Context, key Key, date time.Time) ([]StudentGrid, error)
		ClassReport(ctx context.Context, from, to time.Time, filter student.ClassFilter) ([]StudentStats, error)
		StudentReport(ctx context.Context, studentID string) (StudentReport, error)
	}

	Options struct {
		// Periods is the width of the lookup grid.
		Periods int
		// MaxMergeRetries bounds the read-merge-write attempts of Mark.
		MaxMergeRetries int
		// OnConflict is called every time a merge loses a race and is retried.
		OnConflict func()
	}

	service struct {
		repo    Repository
		stdSvc  student.ServiceInterface
		opts    Options
		nowFunc func() time.Time
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, stdSvc student.ServiceInterface, opts Options) ServiceInterface {
	if opts.Periods <= 0 {
		opts.Periods = DefaultPeriods
	}
	if opts.MaxMergeRetries <= 0 {
		opts.MaxMergeRetries = DefaultMaxMergeRetries
	}
	return &service{
		repo:    repo,
		stdSvc:  stdSvc,
		opts:    opts,
		nowFunc: time.Now,
	}
}

// Mark reconciles the batch into the Day of mark.Key and mark.Date, creating the Day if needed.
// The write is conditional on the version read, so concurrent marks of the same Day are
// re-applied on top of each other instead of overwriting one another.
func (svc *service) Mark(ctx context.Context, mark Mark) error {
	mark.Key.Clean()
	date := core.StartOfDay(mark.Date)

	for attempt := 1; ; attempt++ {
		now := svc.nowFunc().UTC()

		day, err := svc.repo.GetDay(ctx, mark.Key, date)
		isNew := false
		if err != nil {
			if errors.Cause(err) != ErrNoRecord {
				return errors.Wrap(err, "finding attendance day")
			}
			day = Day{
				ID:        uuid.NewString(),
				Key:       mark.Key,
				Date:      date,
				FacultyID: mark.FacultyID,
				Students:  []StudentEntry{},
				CreatedAt: now,
			}
			isNew = true
		}

		Reconcile(&day, mark.Students)
		day.UpdatedAt = now

		if isNew {
			err = svc.repo.InsertDay(ctx, day)
		} else {
			err = svc.repo.ReplaceDay(ctx, day)
		}
		if err == nil {
			return nil
		}
		if errors.Cause(err) != ErrVersionConflict {
			return errors.Wrap(err, "saving attendance day")
		}
		if svc.opts.OnConflict != nil {
			svc.opts.OnConflict()
		}
		if attempt >= svc.opts.MaxMergeRetries {
			return ErrConcurrentUpdate
		}
	}
}

func (svc *service) Lookup(ctx context.Context, key Key, date time.Time) ([]StudentGrid, error) {
	key.Clean()
	day, err := svc.repo.GetDay(ctx, key, core.StartOfDay(date))
	if err != nil {
		return nil, err
	}
	return DayGrid(day, svc.opts.Periods), nil
}

// ClassReport tallies the attendance of every student of the class between from and to, inclusive.
func (svc *service) ClassReport(ctx context.Context, from, to time.Time, filter student.ClassFilter) ([]StudentStats, error) {
	from, to = core.StartOfDay(from), core.EndOfDay(to)
	if to.Before(from) {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "toDate", Error: "toDate must not be before fromDate"})
	}
	filter.Clean()

	students, err := svc.stdSvc.Query(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	if len(students) == 0 {
		return nil, ErrNoStudents
	}

	days, err := svc.repo.QueryDays(ctx, DayFilter{Class: filter, From: from, To: to})
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance days")
	}
	return ClassStats(students, days), nil
}

// StudentReport tallies all the recorded attendance of a student.
func (svc *service) StudentReport(ctx context.Context, studentID string) (StudentReport, error) {
	std, err := svc.stdSvc.GetByID(ctx, studentID)
	if err != nil {
		return StudentReport{}, err
	}

	days, err := svc.repo.QueryDays(ctx, DayFilter{StudentID: std.ID})
	if err != nil {
		return StudentReport{}, errors.Wrap(err, "querying attendance days")
	}

	var t Tally
	for _, day := range days {
		if entry, ok := day.Entry(std.ID); ok {
			t.Add(entry)
		}
	}
	return StudentReport{
		StudentStats: newStudentStats(std, t),
		AbsentCount:  t.AbsentCount(),
	}, nil
}
