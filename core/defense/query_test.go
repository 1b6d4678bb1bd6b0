package defense

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_EventsInMonth(t *testing.T) {
	mockNow(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	schedules := Project([]CommitteeRecord{
		record("C1", "2025-10-15T08:00:00Z"),
		record("C2", "2025-10-28T08:00:00Z"),
		record("C3", "2025-11-03T08:00:00Z"),
		record("C4", "2024-10-15T08:00:00Z"), // same month, other year
	}, "GV01")

	oct := EventsInMonth(schedules, 2025, time.October)
	if len(oct) != 2 {
		t.Fatalf("EventsInMonth() returned %d; want 2", len(oct))
	}
	codes := []string{oct[0].CommitteeCode, oct[1].CommitteeCode}
	assert.ElementsMatch(t, []string{"C1", "C2"}, codes)

	if got := EventsInMonth(schedules, 2025, time.December); len(got) != 0 {
		t.Errorf("EventsInMonth(empty month) returned %d; want 0", len(got))
	}
	if got := EventsInMonth(nil, 2025, time.October); len(got) != 0 {
		t.Errorf("EventsInMonth(nil) returned %d; want 0", len(got))
	}
}

func Test_EventsOnDate(t *testing.T) {
	mockNow(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	two := record("C1", "2025-10-15T08:00:00Z",
		CommitteeAssignment{TopicCode: "KL001", StudentCode: "S1"},
		CommitteeAssignment{TopicCode: "KL002", StudentCode: "S2"},
	)
	one := record("C2", "2025-10-15T13:00:00Z",
		CommitteeAssignment{TopicCode: "KL003", StudentCode: "S3"},
	)

	schedules := Project([]CommitteeRecord{two, one}, "GV01")
	if len(schedules) != 2 {
		t.Fatalf("Project() returned %d schedules; want 2 (one per committee)", len(schedules))
	}
	for _, s := range schedules {
		if s.Duration != DefaultDuration {
			t.Errorf("duration = %d; want %d", s.Duration, DefaultDuration)
		}
	}

	got := EventsOnDate(schedules, time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC))
	if len(got) != 2 {
		t.Fatalf("EventsOnDate() returned %d; want 2", len(got))
	}

	if got := EventsOnDate(schedules, time.Date(2025, time.October, 16, 0, 0, 0, 0, time.UTC)); len(got) != 0 {
		t.Errorf("EventsOnDate(other day) returned %d; want 0", len(got))
	}
}

// Any schedule found by EventsInMonth must be reachable by EventsOnDate for
// its own day: both sides share the UTC day convention.
func Test_monthAndDateQueriesAgree(t *testing.T) {
	mockNow(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	schedules := Project([]CommitteeRecord{
		record("C1", "2025-10-15T23:30:00+07:00"),
		record("C2", "2025-10-01T06:30:00+07:00"), // previous UTC day, previous month boundary
		record("C3", "2025-10-20T08:00:00Z"),
	}, "GV01")

	for _, month := range []time.Month{time.September, time.October} {
		for _, s := range EventsInMonth(schedules, 2025, month) {
			found := EventsOnDate(schedules, s.Day())
			var ok bool
			for _, f := range found {
				if f.ID == s.ID {
					ok = true
					break
				}
			}
			if !ok {
				t.Errorf("schedule %d (%s) in month %v not reachable via EventsOnDate(%v)", s.ID, s.CommitteeCode, month, s.Day())
			}
		}
	}
}
