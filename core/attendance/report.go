package attendance

import "github.com/Rashad2003/Student-Attendance-Management/core/student"

// Tally counts recorded and present periods.
type Tally struct {
	TotalPeriods int
	PresentCount int
}

func (t *Tally) Add(entry StudentEntry) {
	t.TotalPeriods += len(entry.Periods)
	for _, p := range entry.Periods {
		if p.Status == StatusPresent {
			t.PresentCount++
		}
	}
}

// Percentage is PresentCount/TotalPeriods*100, or 0 when nothing was recorded.
func (t Tally) Percentage() float64 {
	if t.TotalPeriods == 0 {
		return 0
	}
	return float64(t.PresentCount) / float64(t.TotalPeriods) * 100
}

func (t Tally) AbsentCount() int {
	return t.TotalPeriods - t.PresentCount
}

type StudentStats struct {
	ID           string  `json:"_id"`
	Name         string  `json:"name"`
	Register     string  `json:"register"`
	Department   string  `json:"department"`
	Year         string  `json:"year"`
	Section      string  `json:"section"`
	TotalPeriods int     `json:"totalPeriods"`
	PresentCount int     `json:"presentCount"`
	Percentage   float64 `json:"percentage"`
}

type StudentReport struct {
	StudentStats
	AbsentCount int `json:"absentCount"`
}

func newStudentStats(std student.Student, t Tally) StudentStats {
	return StudentStats{
		ID:           std.ID,
		Name:         std.Name,
		Register:     std.Register,
		Department:   std.Department,
		Year:         std.Year,
		Section:      std.Section,
		TotalPeriods: t.TotalPeriods,
		PresentCount: t.PresentCount,
		Percentage:   t.Percentage(),
	}
}

// tallyByStudent sums the entries of every day per student id.
func tallyByStudent(days []Day) map[string]*Tally {
	tallies := make(map[string]*Tally)
	for _, day := range days {
		for _, entry := range day.Students {
			t, ok := tallies[entry.StudentID]
			if !ok {
				t = new(Tally)
				tallies[entry.StudentID] = t
			}
			t.Add(entry)
		}
	}
	return tallies
}

// ClassStats returns the statistics of each student over days, in the order of students.
func ClassStats(students []student.Student, days []Day) []StudentStats {
	tallies := tallyByStudent(days)
	stats := make([]StudentStats, 0, len(students))
	for _, std := range students {
		var t Tally
		if found, ok := tallies[std.ID]; ok {
			t = *found
		}
		stats = append(stats, newStudentStats(std, t))
	}
	return stats
}
