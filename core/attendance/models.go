package attendance

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/student"
)

// Statuses
const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// Status is a period status label. Any non-empty text is accepted; empty means Present.
type Status string

func (s Status) OrDefault() Status {
	if strings.TrimSpace(string(s)) == "" {
		return StatusPresent
	}
	return s
}

// PeriodNumber is a period label. It is always compared and stored as a string,
// so that 1 and "1" address the same period.
type PeriodNumber string

// NormalizePeriodNumber trims surrounding whitespace from a period label.
func NormalizePeriodNumber(s string) PeriodNumber {
	return PeriodNumber(strings.TrimSpace(s))
}

// PeriodNumberFromInt formats a numeric period label.
func PeriodNumberFromInt(n int) PeriodNumber {
	return PeriodNumber(strconv.Itoa(n))
}

// UnmarshalJSON accepts a JSON number or a JSON string.
func (p *PeriodNumber) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*p = ""
	case string:
		*p = NormalizePeriodNumber(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return errors.Wrap(err, "parsing periodNumber")
		}
		*p = PeriodNumber(strconv.FormatFloat(f, 'f', -1, 64))
	default:
		return errors.New("periodNumber must be a number or a string")
	}
	return nil
}

// Key identifies the class an AttendanceDay belongs to.
type Key struct {
	Department string `json:"department" query:"department" validate:"required"`
	Year       string `json:"year" query:"year" validate:"required"`
	Section    string `json:"section" query:"section" validate:"required"`
	Semester   string `json:"semester" query:"semester" validate:"required"`
}

func (k *Key) Clean() {
	k.Department = core.CleanString(k.Department)
	k.Year = core.CleanString(k.Year)
	k.Section = core.CleanString(k.Section)
	k.Semester = core.CleanString(k.Semester)
}

type PeriodEntry struct {
	PeriodNumber PeriodNumber `json:"periodNumber"`
	Subject      string       `json:"subject"`
	Status       Status       `json:"status"`
}

// StudentEntry is a student's attendance within a Day.
// Name, Register and the class placement are copied from the marking request
// and reflect the roster at marking time; they are never refreshed afterwards.
type StudentEntry struct {
	StudentID  string        `json:"studentId"`
	Name       string        `json:"name"`
	Register   string        `json:"register"`
	Department string        `json:"department"`
	Year       string        `json:"year"`
	Section    string        `json:"section"`
	Periods    []PeriodEntry `json:"periods"`
}

func (se *StudentEntry) periodIndex(n PeriodNumber) int {
	for i := range se.Periods {
		if se.Periods[i].PeriodNumber == n {
			return i
		}
	}
	return -1
}

// setPeriod overwrites the status and subject of an existing period or appends a new one.
func (se *StudentEntry) setPeriod(p PeriodEntry) {
	if i := se.periodIndex(p.PeriodNumber); i >= 0 {
		se.Periods[i].Status = p.Status
		se.Periods[i].Subject = p.Subject
		return
	}
	se.Periods = append(se.Periods, p)
}

// Day is the attendance of one class on one calendar date.
type Day struct {
	ID string `json:"_id"`
	Key
	Date      time.Time      `json:"date"` // midnight UTC
	FacultyID string         `json:"facultyId,omitempty"`
	Students  []StudentEntry `json:"students"`
	// Version is incremented on every write and guards concurrent merges.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Label returns the calendar date of the Day as YYYY-MM-DD.
func (d Day) Label() string {
	return d.Date.Format(core.DateLayout)
}

func (d *Day) studentIndex(studentID string) int {
	for i := range d.Students {
		if d.Students[i].StudentID == studentID {
			return i
		}
	}
	return -1
}

// Entry returns the entry of the given student, if any.
func (d *Day) Entry(studentID string) (StudentEntry, bool) {
	if i := d.studentIndex(studentID); i >= 0 {
		return d.Students[i], true
	}
	return StudentEntry{}, false
}

// Marking input

type PeriodMark struct {
	PeriodNumber PeriodNumber `json:"periodNumber" validate:"required"`
	Subject      string       `json:"subject"`
	Status       Status       `json:"status"`
}

type StudentMark struct {
	StudentID string       `json:"studentId" validate:"required"`
	Name      string       `json:"name"`
	Register  string       `json:"register"`
	Periods   []PeriodMark `json:"periods" validate:"dive"`
}

// Mark is a batch of period observations for one class and date.
type Mark struct {
	Key
	Date      time.Time
	FacultyID string
	Students  []StudentMark
}

// DayFilter selects Days for reporting. Zero fields are ignored.
type DayFilter struct {
	Class     student.ClassFilter
	From      time.Time
	To        time.Time
	StudentID string
}
