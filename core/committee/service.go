package committee

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gradhub/thesisdesk/core"
	"github.com/gradhub/thesisdesk/core/defense"
)

var (
	// errors
	ErrNotFound        = errors.New("committee not found")
	ErrCodeExists      = errors.New("a committee with this code already exists")
	ErrMemberExists    = errors.New("this lecturer is already a member of the committee")
	ErrStudentAssigned = errors.New("this student is already assigned to the committee")
)

type (
	Repository interface {
		CheckCodeUniqueness(ctx context.Context, code string) error
		CreateCommittee(ctx context.Context, cmt Committee) (Committee, error)
		GetCommitteeByCode(ctx context.Context, code string) (Committee, error)
		QueryAllCommittees(ctx context.Context) ([]Committee, error)
		// FilterCommittees applies AND operation on available QueryFilter fields.
		FilterCommittees(ctx context.Context, filter QueryFilter) ([]Committee, error)
		UpdateCommittee(ctx context.Context, cmt Committee) (Committee, error)
		DeleteCommitteesByCode(ctx context.Context, codes ...string) error
	}

	Service interface {
		CheckCodeUniqueness(ctx context.Context, code string) error
		Create(ctx context.Context, nc NewCommittee) (Committee, error)
		GetByCode(ctx context.Context, code string) (Committee, error)
		QueryAll(ctx context.Context) ([]Committee, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Committee, error)
		AddMember(ctx context.Context, code string, m Member) (Committee, error)
		AssignStudent(ctx context.Context, code string, a Assignment) (Committee, error)
		Schedule(ctx context.Context, code string, sc ScheduleCommittee) (Committee, error)
		Delete(ctx context.Context, codes ...string) error
		// Records converts the committees matching filter to the
		// committee-assignment payload shape the defense projection consumes.
		Records(ctx context.Context, filter QueryFilter) ([]defense.CommitteeRecord, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
	}
}

func (svc *service) CheckCodeUniqueness(ctx context.Context, code string) error {
	if err := svc.repo.CheckCodeUniqueness(ctx, code); err != nil {
		if err == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nc NewCommittee) (Committee, error) {
	now := time.Now().UTC()
	cmt := Committee{
		Code:        nc.Code,
		Name:        nc.Name,
		Semester:    nc.Semester,
		Members:     nc.Members,
		Assignments: make([]Assignment, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCommittee(ctx, cmt)
}

func (svc *service) GetByCode(ctx context.Context, code string) (Committee, error) {
	return svc.repo.GetCommitteeByCode(ctx, core.CleanString(code))
}

func (svc *service) QueryAll(ctx context.Context) ([]Committee, error) {
	return svc.repo.QueryAllCommittees(ctx)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Committee, error) {
	filter.Clean()
	return svc.repo.FilterCommittees(ctx, filter)
}

func (svc *service) AddMember(ctx context.Context, code string, m Member) (Committee, error) {
	cmt, err := svc.GetByCode(ctx, code)
	if err != nil {
		return Committee{}, err
	}
	if cmt.HasLecturer(m.LecturerCode) {
		return Committee{}, core.NewValidationError(ErrMemberExists, core.FieldError{Field: "lecturer_code", Error: ErrMemberExists.Error()})
	}
	cmt.Members = append(cmt.Members, m)
	cmt.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCommittee(ctx, cmt)
}

func (svc *service) AssignStudent(ctx context.Context, code string, a Assignment) (Committee, error) {
	cmt, err := svc.GetByCode(ctx, code)
	if err != nil {
		return Committee{}, err
	}
	if cmt.HasStudent(a.StudentCode) {
		return Committee{}, core.NewValidationError(ErrStudentAssigned, core.FieldError{Field: "student_code", Error: ErrStudentAssigned.Error()})
	}
	cmt.Assignments = append(cmt.Assignments, a)
	cmt.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCommittee(ctx, cmt)
}

// Schedule sets the defense slot and notifies every assigned student.
func (svc *service) Schedule(ctx context.Context, code string, sc ScheduleCommittee) (Committee, error) {
	cmt, err := svc.GetByCode(ctx, code)
	if err != nil {
		return Committee{}, err
	}
	cmt.DefenseDate = null.TimeFrom(sc.DefenseDate.UTC())
	cmt.Room = null.StringFrom(sc.Room)
	cmt.StartTime = null.NewString(sc.StartTime, sc.StartTime != "")
	cmt.EndTime = null.NewString(sc.EndTime, sc.EndTime != "")
	cmt.UpdatedAt = time.Now().UTC()

	cmt, err = svc.repo.UpdateCommittee(ctx, cmt)
	if err != nil {
		return Committee{}, err
	}
	svc.sendScheduledMail(cmt)
	return cmt, nil
}

func (svc *service) Delete(ctx context.Context, codes ...string) error {
	return svc.repo.DeleteCommitteesByCode(ctx, codes...)
}

func (svc *service) Records(ctx context.Context, filter QueryFilter) ([]defense.CommitteeRecord, error) {
	cmts, err := svc.Filter(ctx, filter)
	if err != nil {
		return nil, err
	}
	records := make([]defense.CommitteeRecord, 0, len(cmts))
	for _, cmt := range cmts {
		records = append(records, cmt.Record())
	}
	return records, nil
}

func (svc *service) sendScheduledMail(cmt Committee) {
	msgs := make([]*core.EmailMessage, 0, len(cmt.Assignments))
	for _, a := range cmt.Assignments {
		if a.StudentEmail == "" {
			continue
		}
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Name: a.StudentName, Address: a.StudentEmail}},
			Subject:      "Defense scheduled: " + cmt.Name,
			TemplateName: "defense-scheduled",
			TemplateData: struct {
				StudentName string
				Committee   string
				Date        time.Time
				Room        string
				StartTime   string
			}{
				StudentName: a.StudentName,
				Committee:   cmt.Name,
				Date:        cmt.DefenseDate.Time,
				Room:        cmt.Room.String,
				StartTime:   cmt.StartTime.String,
			},
		})
	}
	if len(msgs) > 0 {
		svc.mailSvc.SendMessages(msgs...)
	}
}
