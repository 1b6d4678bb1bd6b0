package topic

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gradhub/thesisdesk/core"
)

var (
	// errors
	ErrNotFound       = errors.New("topic not found")
	ErrCodeExists     = errors.New("a topic with this code already exists")
	ErrAlreadyDecided = errors.New("this topic has already been decided")
)

type (
	Repository interface {
		CheckCodeUniqueness(ctx context.Context, code string) error
		CreateTopic(ctx context.Context, t Topic) (Topic, error)
		GetTopicByCode(ctx context.Context, code string) (Topic, error)
		QueryAllTopics(ctx context.Context) ([]Topic, error)
		// FilterTopics applies AND operation on available QueryFilter fields.
		FilterTopics(ctx context.Context, filter QueryFilter) ([]Topic, error)
		UpdateTopic(ctx context.Context, t Topic) (Topic, error)
		DeleteTopicsByCode(ctx context.Context, codes ...string) error
	}

	Service interface {
		CheckCodeUniqueness(ctx context.Context, code string) error
		Register(ctx context.Context, nt NewTopic) (Topic, error)
		Approve(ctx context.Context, code string, d TopicDecision) (Topic, error)
		Reject(ctx context.Context, code string, d TopicDecision) (Topic, error)
		GetByCode(ctx context.Context, code string) (Topic, error)
		QueryAll(ctx context.Context) ([]Topic, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Topic, error)
		Delete(ctx context.Context, codes ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
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

func (svc *service) Register(ctx context.Context, nt NewTopic) (Topic, error) {
	now := time.Now().UTC()
	t := Topic{
		Code:           nt.Code,
		Title:          nt.Title,
		Abstract:       nt.Abstract,
		StudentCode:    nt.StudentCode,
		SupervisorCode: nt.SupervisorCode,
		Semester:       nt.Semester,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateTopic(ctx, t)
}

func (svc *service) Approve(ctx context.Context, code string, d TopicDecision) (Topic, error) {
	return svc.decide(ctx, code, StatusApproved, d)
}

func (svc *service) Reject(ctx context.Context, code string, d TopicDecision) (Topic, error) {
	return svc.decide(ctx, code, StatusRejected, d)
}

// decide moves a pending topic to a terminal status. Decisions are final.
func (svc *service) decide(ctx context.Context, code, status string, d TopicDecision) (Topic, error) {
	t, err := svc.GetByCode(ctx, code)
	if err != nil {
		return Topic{}, err
	}
	if t.IsDecided() {
		return Topic{}, core.NewValidationError(ErrAlreadyDecided, core.FieldError{Field: "status", Error: ErrAlreadyDecided.Error()})
	}
	now := time.Now().UTC()
	t.Status = status
	t.DecisionNote = core.CleanString(d.Note)
	t.DecidedAt = now
	t.UpdatedAt = now
	return svc.repo.UpdateTopic(ctx, t)
}

func (svc *service) GetByCode(ctx context.Context, code string) (Topic, error) {
	return svc.repo.GetTopicByCode(ctx, core.CleanString(code))
}

func (svc *service) QueryAll(ctx context.Context) ([]Topic, error) {
	return svc.repo.QueryAllTopics(ctx)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Topic, error) {
	filter.Clean()
	return svc.repo.FilterTopics(ctx, filter)
}

func (svc *service) Delete(ctx context.Context, codes ...string) error {
	return svc.repo.DeleteTopicsByCode(ctx, codes...)
}
