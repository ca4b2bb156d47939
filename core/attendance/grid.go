package attendance

import "encoding/json"

// NotMarked is how an empty Slot is rendered.
const NotMarked = "Not Marked"

// Slot is one cell of the period grid: either a recorded status or nothing.
type Slot struct {
	Status Status
	Marked bool
}

func MarkedSlot(s Status) Slot { return Slot{Status: s, Marked: true} }

func (s Slot) String() string {
	if !s.Marked {
		return NotMarked
	}
	return string(s.Status)
}

func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// StudentGrid is a student's row in the lookup of a Day.
type StudentGrid struct {
	StudentID     string `json:"studentId"`
	Name          string `json:"name"`
	Register      string `json:"register"`
	PeriodsStatus []Slot `json:"periodsStatus"`
}

// BuildGrid lays out the periods of entry over periods 1..width.
// Period labels outside that range are left out.
func BuildGrid(entry StudentEntry, width int) []Slot {
	slots := make([]Slot, width)
	for i := range slots {
		if j := entry.periodIndex(PeriodNumberFromInt(i + 1)); j >= 0 {
			slots[i] = MarkedSlot(entry.Periods[j].Status)
		}
	}
	return slots
}

// DayGrid builds the grid of every student of day, in marking order.
func DayGrid(day Day, width int) []StudentGrid {
	rows := make([]StudentGrid, 0, len(day.Students))
	for _, entry := range day.Students {
		rows = append(rows, StudentGrid{
			StudentID:     entry.StudentID,
			Name:          entry.Name,
			Register:      entry.Register,
			PeriodsStatus: BuildGrid(entry, width),
		})
	}
	return rows
}
