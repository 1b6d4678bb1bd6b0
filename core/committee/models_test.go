package committee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestCommittee_Record(t *testing.T) {
	cmt := Committee{
		Code:     "HD01",
		Name:     "Hội đồng 1",
		Semester: "2025.1",
		Members: []Member{
			{LecturerCode: "GV01", Name: "Trần Văn An", Role: RoleChair},
		},
		Assignments: []Assignment{
			{TopicCode: "KL001", Title: "Đề tài 1", StudentCode: "S1", StudentName: "Châu", StudentEmail: "chau@uni.test"},
		},
	}

	// unscheduled committee → empty defenseDate, projector will skip it
	rec := cmt.Record()
	assert.Equal(t, "HD01", rec.CommitteeCode)
	assert.Equal(t, "", rec.DefenseDate)
	assert.Len(t, rec.Members, 1)
	assert.Len(t, rec.Assignments, 1)
	assert.Equal(t, RoleChair, rec.Members[0].Role)

	cmt.DefenseDate = null.TimeFrom(time.Date(2025, time.October, 15, 8, 0, 0, 0, time.UTC))
	cmt.Room = null.StringFrom("B4-203")
	cmt.StartTime = null.StringFrom("08:00:00")

	rec = cmt.Record()
	assert.Equal(t, "2025-10-15T08:00:00Z", rec.DefenseDate)
	assert.Equal(t, "B4-203", rec.Room)
	assert.Equal(t, "08:00:00", rec.StartTime)
}

func TestCommittee_membership(t *testing.T) {
	cmt := Committee{
		Members:     []Member{{LecturerCode: "GV01", Role: RoleChair}},
		Assignments: []Assignment{{StudentCode: "S1"}},
	}
	assert.True(t, cmt.HasLecturer("GV01"))
	assert.False(t, cmt.HasLecturer("GV02"))
	assert.True(t, cmt.HasStudent("S1"))
	assert.False(t, cmt.HasStudent("S2"))
	assert.False(t, cmt.IsScheduled())
}
