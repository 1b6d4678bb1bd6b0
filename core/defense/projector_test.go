package defense

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mockNow(t *testing.T, now time.Time) {
	t.Helper()
	NowFunc = func() time.Time { return now }
	t.Cleanup(func() { NowFunc = time.Now })
}

func record(code, date string, assignments ...CommitteeAssignment) CommitteeRecord {
	return CommitteeRecord{
		CommitteeCode: code,
		Name:          "Hội đồng " + code,
		Room:          "B4-203",
		DefenseDate:   date,
		StartTime:     "08:00:00",
		EndTime:       "11:30:00",
		Members: []CommitteeMember{
			{LecturerCode: "GV01", Name: "Trần Văn An", Role: "Chủ tịch"},
			{LecturerCode: "GV02", Name: "Lê Thị Bình", Role: "Thư ký"},
		},
		Assignments: assignments,
	}
}

func Test_Project_dedupPerCommitteeDay(t *testing.T) {
	mockNow(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	first := record("C1", "2025-10-15T08:00:00Z", CommitteeAssignment{TopicCode: "T1", StudentCode: "S1"})
	dup := record("C1", "2025-10-15T13:00:00Z", CommitteeAssignment{TopicCode: "T9", StudentCode: "S9"})

	got := Project([]CommitteeRecord{first, dup}, "GV01")
	if len(got) != 1 {
		t.Fatalf("Project() returned %d schedules; want 1", len(got))
	}
	// first-seen record wins; the later duplicate is discarded outright
	if got[0].TopicCode != "T1" {
		t.Errorf("topicCode = %q; want %q (first record wins)", got[0].TopicCode, "T1")
	}
	if got[0].ScheduledAt != "2025-10-15T08:00:00Z" {
		t.Errorf("scheduledAt = %q; want first record's date, verbatim", got[0].ScheduledAt)
	}

	// same committee on another day is a distinct schedule
	other := record("C1", "2025-10-16T08:00:00Z")
	got = Project([]CommitteeRecord{first, dup, other}, "GV01")
	if len(got) != 2 {
		t.Errorf("Project() returned %d schedules; want 2 (distinct days)", len(got))
	}
}

func Test_Project_skipsUnscheduled(t *testing.T) {
	mockNow(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		date string
	}{
		{"absent", ""},
		{"garbage", "not-a-date"},
		{"partial", "2025-13-45"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project([]CommitteeRecord{{CommitteeCode: "C1", DefenseDate: tt.date}}, "GV01")
			if len(got) != 0 {
				t.Errorf("Project() returned %d schedules; want 0", len(got))
			}
		})
	}

	if got := Project(nil, "GV01"); len(got) != 0 {
		t.Errorf("Project(nil) returned %d schedules; want 0", len(got))
	}
}

func Test_Project_statusSnapshot(t *testing.T) {
	mockNow(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		date string
		want string
	}{
		{"just past", "2025-05-31T23:59:59Z", StatusCompleted},
		{"future", "2025-06-02T00:00:00Z", StatusScheduled},
		{"exactly now", "2025-06-01T00:00:00Z", StatusScheduled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project([]CommitteeRecord{record("C1", tt.date)}, "GV01")
			if len(got) != 1 {
				t.Fatalf("Project() returned %d schedules; want 1", len(got))
			}
			if got[0].Status != tt.want {
				t.Errorf("status = %q; want %q", got[0].Status, tt.want)
			}
		})
	}
}

func Test_Project_aggregatesAssignments(t *testing.T) {
	mockNow(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	rec := record("C1", "2025-10-15T08:00:00Z",
		CommitteeAssignment{TopicCode: "KL001", Title: "Hệ thống quản lý khóa luận", StudentCode: "S1", StudentName: "Ngô Minh Châu"},
		CommitteeAssignment{TopicCode: "KL002", Title: "Nhận dạng chữ viết tay", StudentCode: "S2", StudentName: "Phạm Quốc Dũng"},
	)

	got := Project([]CommitteeRecord{rec}, "GV01")
	if len(got) != 1 {
		t.Fatalf("Project() returned %d schedules; want 1", len(got))
	}
	s := got[0]
	assert.Equal(t, "S1, S2", s.StudentCode)
	assert.Equal(t, "Ngô Minh Châu, Phạm Quốc Dũng", s.StudentName)
	assert.Equal(t, "KL001, KL002", s.TopicCode)
	assert.Equal(t, "Hệ thống quản lý khóa luận; Nhận dạng chữ viết tay", s.TopicTitle)

	// no assignments → empty aggregates, never a missing schedule
	empty := Project([]CommitteeRecord{record("C2", "2025-10-15T08:00:00Z")}, "GV01")
	if len(empty) != 1 {
		t.Fatalf("Project() returned %d schedules; want 1", len(empty))
	}
	assert.Equal(t, "", empty[0].StudentCode)
	assert.Equal(t, "", empty[0].TopicTitle)
}

func Test_Project_lecturerRole(t *testing.T) {
	mockNow(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	rec := record("C1", "2025-10-15T08:00:00Z")

	tests := []struct {
		name   string
		viewer string
		want   string
	}{
		{"chair", "GV01", "Chủ tịch"},
		{"secretary", "GV02", "Thư ký"},
		{"not a member", "GV99", DefaultMemberRole},
		{"empty viewer", "", DefaultMemberRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project([]CommitteeRecord{rec}, tt.viewer)
			if len(got) != 1 {
				t.Fatalf("Project() returned %d schedules; want 1", len(got))
			}
			if got[0].LecturerRole != tt.want {
				t.Errorf("lecturerRole = %q; want %q", got[0].LecturerRole, tt.want)
			}
		})
	}
}

func Test_Project_idsDeterministic(t *testing.T) {
	mockNow(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	recs := []CommitteeRecord{
		record("C1", "2025-10-15T08:00:00Z"),
		record("C2", "2025-10-15T08:00:00Z"),
		record("C1", "2025-10-16T08:00:00Z"),
	}

	first := Project(recs, "GV01")
	second := Project(recs, "GV01")
	if len(first) != 3 {
		t.Fatalf("Project() returned %d schedules; want 3", len(first))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("id not deterministic: %d vs %d", first[i].ID, second[i].ID)
		}
	}

	seen := make(map[int]string, len(first))
	for _, s := range first {
		if prev, ok := seen[s.ID]; ok {
			t.Errorf("id %d assigned to both %q and %q", s.ID, prev, s.CommitteeCode)
		}
		seen[s.ID] = s.CommitteeCode
	}
}

// Ids must not collide across committees even when the projection grows past
// the ordinals a small id space would hold.
func Test_Project_idsUniqueInLargeProjection(t *testing.T) {
	mockNow(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	recs := make([]CommitteeRecord, 0, 300)
	for i := 0; i < 300; i++ {
		recs = append(recs, record(fmt.Sprintf("HD%03d", i), "2025-10-15T08:00:00Z"))
	}

	got := Project(recs, "GV01")
	if len(got) != 300 {
		t.Fatalf("Project() returned %d schedules; want 300", len(got))
	}
	seen := make(map[int]string, len(got))
	for _, s := range got {
		if prev, ok := seen[s.ID]; ok {
			t.Errorf("id %d assigned to both %q and %q", s.ID, prev, s.CommitteeCode)
		}
		seen[s.ID] = s.CommitteeCode
	}
}

func Test_Project_utcDayBucketing(t *testing.T) {
	mockNow(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	// 23:30+07:00 is 16:30Z the same day; 06:30+07:00 is 23:30Z the PREVIOUS day.
	// The UTC convention buckets by the normalized day, reproducing upstream.
	sameDay := record("C1", "2025-10-15T23:30:00+07:00")
	prevDay := record("C2", "2025-10-15T06:30:00+07:00")

	got := Project([]CommitteeRecord{sameDay, prevDay}, "GV01")
	if len(got) != 2 {
		t.Fatalf("Project() returned %d schedules; want 2", len(got))
	}
	if want := time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC); !got[0].Day().Equal(want) {
		t.Errorf("day = %v; want %v", got[0].Day(), want)
	}
	if want := time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC); !got[1].Day().Equal(want) {
		t.Errorf("day = %v; want %v", got[1].Day(), want)
	}
}

func Test_Project_defaults(t *testing.T) {
	mockNow(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	got := Project([]CommitteeRecord{record("C1", "2025-10-15T08:00:00Z")}, "GV01")
	if len(got) != 1 {
		t.Fatalf("Project() returned %d schedules; want 1", len(got))
	}
	assert.Equal(t, DefaultDuration, got[0].Duration)
	assert.Equal(t, "Hội đồng C1", got[0].CommitteeName)
	assert.Equal(t, "B4-203", got[0].Room)
}
