package attendance

// Reconcile merges a batch of period observations into day, in place.
//
// A student not yet in the day is appended with all of its periods. For a student
// already present, each period either replaces the status and subject of the entry
// with the same period number, or is appended. Missing statuses default to Present.
// Within a student entry, period numbers stay unique and keep first-seen order.
func Reconcile(day *Day, batch []StudentMark) {
	for _, sm := range batch {
		idx := day.studentIndex(sm.StudentID)
		if idx < 0 {
			day.Students = append(day.Students, StudentEntry{
				StudentID:  sm.StudentID,
				Name:       sm.Name,
				Register:   sm.Register,
				Department: day.Department,
				Year:       day.Year,
				Section:    day.Section,
				Periods:    make([]PeriodEntry, 0, len(sm.Periods)),
			})
			idx = len(day.Students) - 1
		}
		entry := &day.Students[idx]
		for _, pm := range sm.Periods {
			entry.setPeriod(normalizePeriod(pm))
		}
	}
}

func normalizePeriod(pm PeriodMark) PeriodEntry {
	return PeriodEntry{
		PeriodNumber: NormalizePeriodNumber(string(pm.PeriodNumber)),
		Subject:      pm.Subject,
		Status:       pm.Status.OrDefault(),
	}
}
