package defense

import "time"

// MonthGrid lays out the month containing date for a 7-column calendar:
// one nil cell per leading blank so that day 1 lands on its weekday column
// (Sunday = column 0), then one cell per day of the month, at UTC midnight.
// No trailing padding is added; renderers wrap the flat sequence at 7.
// Only the year and month of date are read.
func MonthGrid(date time.Time) []*time.Time {
	year, month := date.Year(), date.Month()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lead := int(first.Weekday())
	days := daysIn(year, month)

	cells := make([]*time.Time, 0, lead+days)
	for i := 0; i < lead; i++ {
		cells = append(cells, nil)
	}
	for d := 1; d <= days; d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		cells = append(cells, &day)
	}
	return cells
}

// daysIn counts the days in a month; day 0 of the next month normalizes to
// the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
