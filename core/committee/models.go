package committee

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/gradhub/thesisdesk/core"
	"github.com/gradhub/thesisdesk/core/defense"
)

// Member roles, as they appear on defense paperwork.
const (
	RoleChair     = "Chủ tịch"
	RoleSecretary = "Thư ký"
	RoleMember    = "Thành viên"
)

var MemberRoles = []string{RoleChair, RoleSecretary, RoleMember}

type Member struct {
	LecturerCode string `json:"lecturer_code" validate:"required,alphanum_"`
	Name         string `json:"name" validate:"required"`
	Role         string `json:"role" validate:"required,committeerole"`
}

func (m *Member) Validate() error {
	m.LecturerCode = core.CleanString(m.LecturerCode)
	m.Name = core.CleanString(m.Name)
	m.Role = core.CleanString(m.Role)
	return core.Validate.Struct(m)
}

// Assignment pairs one student/topic with the committee's defense session.
type Assignment struct {
	TopicCode    string `json:"topic_code" validate:"required,alphanum_"`
	Title        string `json:"title" validate:"required"`
	StudentCode  string `json:"student_code" validate:"required,alphanum_"`
	StudentName  string `json:"student_name" validate:"required"`
	StudentEmail string `json:"student_email" validate:"omitempty,email"`
}

func (a *Assignment) Validate() error {
	a.TopicCode = core.CleanString(a.TopicCode)
	a.Title = core.CleanString(a.Title)
	a.StudentCode = core.CleanString(a.StudentCode)
	a.StudentName = core.CleanString(a.StudentName)
	a.StudentEmail = core.CleanString(a.StudentEmail, true /* lower */)
	return core.Validate.Struct(a)
}

// Committee is a defense panel. Room and the defense slot stay null until an
// admin schedules the session.
type Committee struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Semester    string       `json:"semester"`
	Room        null.String  `json:"room"`
	DefenseDate null.Time    `json:"defense_date"`
	StartTime   null.String  `json:"start_time"` // HH:MM:SS
	EndTime     null.String  `json:"end_time"`   // HH:MM:SS
	Members     []Member     `json:"members"`
	Assignments []Assignment `json:"assignments"`
	CreatedAt   time.Time    `json:"created_at"` // UTC
	UpdatedAt   time.Time    `json:"updated_at"` // UTC
}

func (c Committee) IsScheduled() bool { return c.DefenseDate.Valid }

// Record converts the committee to the payload shape the schedule projection
// consumes. An unscheduled committee yields an empty defenseDate, which the
// projector skips.
func (c Committee) Record() defense.CommitteeRecord {
	rec := defense.CommitteeRecord{
		CommitteeCode: c.Code,
		Name:          c.Name,
		Room:          c.Room.String,
		StartTime:     c.StartTime.String,
		EndTime:       c.EndTime.String,
		Members:       make([]defense.CommitteeMember, 0, len(c.Members)),
		Assignments:   make([]defense.CommitteeAssignment, 0, len(c.Assignments)),
	}
	if c.DefenseDate.Valid {
		rec.DefenseDate = c.DefenseDate.Time.UTC().Format(time.RFC3339)
	}
	for _, m := range c.Members {
		rec.Members = append(rec.Members, defense.CommitteeMember{
			LecturerCode: m.LecturerCode,
			Name:         m.Name,
			Role:         m.Role,
		})
	}
	for _, a := range c.Assignments {
		rec.Assignments = append(rec.Assignments, defense.CommitteeAssignment{
			TopicCode:   a.TopicCode,
			Title:       a.Title,
			StudentCode: a.StudentCode,
			StudentName: a.StudentName,
		})
	}
	return rec
}

// HasLecturer reports whether the lecturer sits on this committee.
func (c Committee) HasLecturer(lecturerCode string) bool {
	for _, m := range c.Members {
		if m.LecturerCode == lecturerCode {
			return true
		}
	}
	return false
}

// HasStudent reports whether the student defends under this committee.
func (c Committee) HasStudent(studentCode string) bool {
	for _, a := range c.Assignments {
		if a.StudentCode == studentCode {
			return true
		}
	}
	return false
}

// NewCommittee contains information needed to create a new Committee.
type NewCommittee struct {
	Code     string   `json:"code" validate:"required,alphanum_"`
	Name     string   `json:"name" validate:"required"`
	Semester string   `json:"semester" validate:"required"`
	Members  []Member `json:"members" validate:"omitempty,dive"`
}

func (nc *NewCommittee) Validate(ctx context.Context, svc Service) error {
	nc.Code = core.CleanString(nc.Code)
	nc.Name = core.CleanString(nc.Name)
	nc.Semester = core.CleanString(nc.Semester)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckCodeUniqueness(ctx, nc.Code)
}

// ScheduleCommittee sets the defense slot of a committee.
type ScheduleCommittee struct {
	DefenseDate time.Time `json:"defense_date" validate:"required"`
	Room        string    `json:"room" validate:"required"`
	StartTime   string    `json:"start_time" validate:"omitempty,timehms"`
	EndTime     string    `json:"end_time" validate:"omitempty,timehms"`
}

func (sc *ScheduleCommittee) Validate() error {
	sc.Room = core.CleanString(sc.Room)
	return core.Validate.Struct(sc)
}

type QueryFilter struct {
	LecturerCode string `query:"lecturer_code"`
	StudentCode  string `query:"student_code"`
	Semester     string `query:"semester"`
	Scheduled    *bool  `query:"scheduled"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.LecturerCode == "" && qf.StudentCode == "" && qf.Semester == "" && qf.Scheduled == nil
}

func (qf *QueryFilter) Clean() {
	qf.LecturerCode = core.CleanString(qf.LecturerCode)
	qf.StudentCode = core.CleanString(qf.StudentCode)
	qf.Semester = core.CleanString(qf.Semester)
}
