package progress

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gradhub/thesisdesk/core"
)

var (
	// errors
	ErrNotFound    = errors.New("milestone not found")
	ErrAlreadyDone = errors.New("this milestone is already completed")
)

type (
	Repository interface {
		CreateMilestone(ctx context.Context, m Milestone) (Milestone, error)
		GetMilestoneByID(ctx context.Context, id string) (Milestone, error)
		QueryMilestonesByTopic(ctx context.Context, topicCode string) ([]Milestone, error)
		UpdateMilestone(ctx context.Context, m Milestone) (Milestone, error)
		DeleteMilestonesByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Plan(ctx context.Context, nm NewMilestone) (Milestone, error)
		Complete(ctx context.Context, id string, cm CompleteMilestone) (Milestone, error)
		GetByID(ctx context.Context, id string) (Milestone, error)
		QueryByTopic(ctx context.Context, topicCode string) ([]Milestone, error)
		// Completion returns the rounded percentage of the topic's completed
		// milestones; a topic with no milestones is 0%.
		Completion(ctx context.Context, topicCode string) (int, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Plan(ctx context.Context, nm NewMilestone) (Milestone, error) {
	now := time.Now().UTC()
	m := Milestone{
		TopicCode: nm.TopicCode,
		Name:      nm.Name,
		DueDate:   nm.DueDate.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateMilestone(ctx, m)
}

func (svc *service) Complete(ctx context.Context, id string, cm CompleteMilestone) (Milestone, error) {
	m, err := svc.repo.GetMilestoneByID(ctx, id)
	if err != nil {
		return Milestone{}, err
	}
	if m.Done {
		return Milestone{}, core.NewValidationError(ErrAlreadyDone, core.FieldError{Field: "done", Error: ErrAlreadyDone.Error()})
	}
	now := time.Now().UTC()
	m.Done = true
	m.Note = core.CleanString(cm.Note)
	m.DoneAt = now
	m.UpdatedAt = now
	return svc.repo.UpdateMilestone(ctx, m)
}

func (svc *service) GetByID(ctx context.Context, id string) (Milestone, error) {
	return svc.repo.GetMilestoneByID(ctx, id)
}

func (svc *service) QueryByTopic(ctx context.Context, topicCode string) ([]Milestone, error) {
	return svc.repo.QueryMilestonesByTopic(ctx, core.CleanString(topicCode))
}

func (svc *service) Completion(ctx context.Context, topicCode string) (int, error) {
	milestones, err := svc.QueryByTopic(ctx, topicCode)
	if err != nil {
		return 0, err
	}
	return CompletionPercent(milestones), nil
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteMilestonesByID(ctx, ids...)
}
