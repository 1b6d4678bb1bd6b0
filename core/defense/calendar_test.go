package defense

import (
	"testing"
	"time"
)

func Test_MonthGrid(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		wantLead int
		wantDays int
	}{
		{"Feb 2025 starts Saturday", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), 6, 28},
		{"Feb 2024 leap year", time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), 4, 29},
		{"Jun 2025 starts Sunday", time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), 0, 30},
		{"Oct 2025", time.Date(2025, time.October, 31, 23, 59, 59, 0, time.UTC), 3, 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := MonthGrid(tt.date)
			if len(cells) != tt.wantLead+tt.wantDays {
				t.Fatalf("len = %d; want %d (no trailing padding)", len(cells), tt.wantLead+tt.wantDays)
			}
			for i := 0; i < tt.wantLead; i++ {
				if cells[i] != nil {
					t.Errorf("cells[%d] = %v; want nil padding", i, cells[i])
				}
			}
			first := cells[tt.wantLead]
			if first == nil || first.Day() != 1 {
				t.Fatalf("cells[%d] = %v; want day 1", tt.wantLead, first)
			}
			if int(first.Weekday()) != tt.wantLead {
				t.Errorf("day 1 weekday = %d; want column %d", first.Weekday(), tt.wantLead)
			}
			last := cells[len(cells)-1]
			if last == nil || last.Day() != tt.wantDays {
				t.Errorf("last cell = %v; want day %d", last, tt.wantDays)
			}
		})
	}
}

func Test_MonthGrid_onlyYearMonthRead(t *testing.T) {
	a := MonthGrid(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	b := MonthGrid(time.Date(2025, time.February, 27, 18, 45, 12, 0, time.FixedZone("ICT", 7*3600)))
	if len(a) != len(b) {
		t.Fatalf("len %d vs %d; grids must match for any day of the month", len(a), len(b))
	}
	for i := range a {
		switch {
		case a[i] == nil && b[i] == nil:
		case a[i] != nil && b[i] != nil && a[i].Equal(*b[i]):
		default:
			t.Errorf("cells[%d] differ: %v vs %v", i, a[i], b[i])
		}
	}
}
