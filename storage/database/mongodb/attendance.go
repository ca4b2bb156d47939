package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/attendance"
	"github.com/Rashad2003/Student-Attendance-Management/storage/database"
)

type (
	periodDoc struct {
		PeriodNumber string `bson:"periodNumber"`
		Subject      string `bson:"subject"`
		Status       string `bson:"status"`
	}

	studentEntryDoc struct {
		StudentID  string      `bson:"studentId"`
		Name       string      `bson:"name"`
		Register   string      `bson:"register"`
		Department string      `bson:"department"`
		Year       string      `bson:"year"`
		Section    string      `bson:"section"`
		Periods    []periodDoc `bson:"periods"`
	}

	dayDoc struct {
		ID         string `bson:"_id"`
		Department string `bson:"department"`
		Year       string `bson:"year"`
		Section    string `bson:"section"`
		Semester   string `bson:"semester"`
		// Day is the YYYY-MM-DD label of Date and part of the unique class-day index.
		Day       string            `bson:"day"`
		Date      time.Time         `bson:"date"`
		FacultyID string            `bson:"facultyId,omitempty"`
		Students  []studentEntryDoc `bson:"students"`
		Version   int64             `bson:"version"`
		CreatedAt time.Time         `bson:"createdAt"`
		UpdatedAt time.Time         `bson:"updatedAt"`
	}
)

func newDayDoc(day attendance.Day) dayDoc {
	students := make([]studentEntryDoc, 0, len(day.Students))
	for _, se := range day.Students {
		periods := make([]periodDoc, 0, len(se.Periods))
		for _, p := range se.Periods {
			periods = append(periods, periodDoc{
				PeriodNumber: string(p.PeriodNumber),
				Subject:      p.Subject,
				Status:       string(p.Status),
			})
		}
		students = append(students, studentEntryDoc{
			StudentID:  se.StudentID,
			Name:       se.Name,
			Register:   se.Register,
			Department: se.Department,
			Year:       se.Year,
			Section:    se.Section,
			Periods:    periods,
		})
	}
	return dayDoc{
		ID:         day.ID,
		Department: day.Department,
		Year:       day.Year,
		Section:    day.Section,
		Semester:   day.Semester,
		Day:        day.Label(),
		Date:       day.Date,
		FacultyID:  day.FacultyID,
		Students:   students,
		Version:    day.Version,
		CreatedAt:  day.CreatedAt,
		UpdatedAt:  day.UpdatedAt,
	}
}

func (d dayDoc) toDay() attendance.Day {
	students := make([]attendance.StudentEntry, 0, len(d.Students))
	for _, se := range d.Students {
		periods := make([]attendance.PeriodEntry, 0, len(se.Periods))
		for _, p := range se.Periods {
			periods = append(periods, attendance.PeriodEntry{
				PeriodNumber: attendance.PeriodNumber(p.PeriodNumber),
				Subject:      p.Subject,
				Status:       attendance.Status(p.Status),
			})
		}
		students = append(students, attendance.StudentEntry{
			StudentID:  se.StudentID,
			Name:       se.Name,
			Register:   se.Register,
			Department: se.Department,
			Year:       se.Year,
			Section:    se.Section,
			Periods:    periods,
		})
	}
	return attendance.Day{
		ID: d.ID,
		Key: attendance.Key{
			Department: d.Department,
			Year:       d.Year,
			Section:    d.Section,
			Semester:   d.Semester,
		},
		Date:      d.Date.UTC(),
		FacultyID: d.FacultyID,
		Students:  students,
		Version:   d.Version,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type attendanceRepository struct {
	coll *mongo.Collection
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *mongo.Database) attendance.Repository {
	return &attendanceRepository{coll: db.Collection(database.AttendanceCollection)}
}

func (repo *attendanceRepository) GetDay(ctx context.Context, key attendance.Key, date time.Time) (attendance.Day, error) {
	q := bson.M{
		"department": key.Department,
		"year":       key.Year,
		"section":    key.Section,
		"semester":   key.Semester,
		"day":        core.StartOfDay(date).Format(core.DateLayout),
	}

	var doc dayDoc
	if err := repo.coll.FindOne(ctx, q).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return attendance.Day{}, attendance.ErrNoRecord
		}
		return attendance.Day{}, wrapErr(err, "finding attendance day")
	}
	return doc.toDay(), nil
}

func (repo *attendanceRepository) InsertDay(ctx context.Context, day attendance.Day) error {
	day.Version = 1
	if _, err := repo.coll.InsertOne(ctx, newDayDoc(day)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendance.ErrVersionConflict
		}
		return wrapErr(err, "inserting attendance day")
	}
	return nil
}

func (repo *attendanceRepository) ReplaceDay(ctx context.Context, day attendance.Day) error {
	q := bson.M{"_id": day.ID, "version": day.Version}
	day.Version++

	res, err := repo.coll.ReplaceOne(ctx, q, newDayDoc(day))
	if err != nil {
		return wrapErr(err, "replacing attendance day")
	}
	if res.MatchedCount == 0 {
		return attendance.ErrVersionConflict
	}
	return nil
}

func (repo *attendanceRepository) QueryDays(ctx context.Context, filter attendance.DayFilter) ([]attendance.Day, error) {
	q := classQuery(filter.Class)
	if !filter.From.IsZero() || !filter.To.IsZero() {
		dateQ := bson.M{}
		if !filter.From.IsZero() {
			dateQ["$gte"] = filter.From
		}
		if !filter.To.IsZero() {
			dateQ["$lte"] = filter.To
		}
		q["date"] = dateQ
	}
	if filter.StudentID != "" {
		q["students.studentId"] = filter.StudentID
	}

	cur, err := repo.coll.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, wrapErr(err, "querying attendance days")
	}
	var docs []dayDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, wrapErr(err, "decoding attendance days")
	}

	days := make([]attendance.Day, 0, len(docs))
	for _, d := range docs {
		days = append(days, d.toDay())
	}
	return days, nil
}
