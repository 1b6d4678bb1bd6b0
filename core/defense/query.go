package defense

import "time"

// EventsInMonth filters schedules to those whose defense day falls in the
// given year and month (UTC day convention, same as the projector's).
// A fresh slice is returned; input order is preserved but not assumed.
func EventsInMonth(schedules []DefenseSchedule, year int, month time.Month) []DefenseSchedule {
	out := make([]DefenseSchedule, 0, len(schedules))
	for _, s := range schedules {
		if s.day.Year() == year && s.day.Month() == month {
			out = append(out, s)
		}
	}
	return out
}

// EventsOnDate filters schedules to those whose defense day equals date's
// UTC calendar day. Any schedule returned by EventsInMonth for a month is
// reachable here for its own day, since both share one day convention.
func EventsOnDate(schedules []DefenseSchedule, date time.Time) []DefenseSchedule {
	day := dayUTC(date)
	out := make([]DefenseSchedule, 0, len(schedules))
	for _, s := range schedules {
		if s.day.Equal(day) {
			out = append(out, s)
		}
	}
	return out
}
