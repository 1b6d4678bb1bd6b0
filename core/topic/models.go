package topic

import (
	"context"
	"time"

	"github.com/gradhub/thesisdesk/core"
)

// Statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Topic is a thesis topic registered by a student under a supervising lecturer.
type Topic struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	Title          string    `json:"title"`
	Abstract       string    `json:"abstract"`
	StudentCode    string    `json:"student_code"`
	SupervisorCode string    `json:"supervisor_code"`
	Semester       string    `json:"semester"`
	Status         string    `json:"status"`
	DecisionNote   string    `json:"decision_note,omitempty"`
	DecidedAt      time.Time `json:"decided_at,omitempty"` // UTC; zero until decided
	CreatedAt      time.Time `json:"created_at"`           // UTC
	UpdatedAt      time.Time `json:"updated_at"`           // UTC
}

func (t Topic) IsDecided() bool { return t.Status != StatusPending }

// NewTopic contains information needed to register a new Topic.
type NewTopic struct {
	Code           string `json:"code" validate:"required,alphanum_"`
	Title          string `json:"title" validate:"required"`
	Abstract       string `json:"abstract"`
	StudentCode    string `json:"student_code" validate:"required,alphanum_"`
	SupervisorCode string `json:"supervisor_code" validate:"required,alphanum_"`
	Semester       string `json:"semester" validate:"required"`
}

func (nt *NewTopic) Validate(ctx context.Context, svc Service) error {
	nt.Code = core.CleanString(nt.Code)
	nt.Title = core.CleanString(nt.Title)
	nt.Abstract = core.CleanString(nt.Abstract)
	nt.StudentCode = core.CleanString(nt.StudentCode)
	nt.SupervisorCode = core.CleanString(nt.SupervisorCode)
	nt.Semester = core.CleanString(nt.Semester)

	if err := core.Validate.Struct(nt); err != nil {
		return err
	}
	return svc.CheckCodeUniqueness(ctx, nt.Code)
}

// TopicDecision carries a supervisor's approve/reject verdict.
type TopicDecision struct {
	Note string `json:"note"`
}

type QueryFilter struct {
	StudentCode    string `query:"student_code"`
	SupervisorCode string `query:"supervisor_code"`
	Semester       string `query:"semester"`
	Status         string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentCode == "" && qf.SupervisorCode == "" && qf.Semester == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.StudentCode = core.CleanString(qf.StudentCode)
	qf.SupervisorCode = core.CleanString(qf.SupervisorCode)
	qf.Semester = core.CleanString(qf.Semester)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
