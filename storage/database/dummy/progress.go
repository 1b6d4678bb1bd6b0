package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/gradhub/thesisdesk/core/progress"
)

type progressRepository struct {
	db *milestoneTable
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *DB) progress.Repository {
	return &progressRepository{db: db.milestone}
}

func (repo *progressRepository) CreateMilestone(ctx context.Context, m progress.Milestone) (progress.Milestone, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	m.ID = uuid.New().String()
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *progressRepository) GetMilestoneByID(ctx context.Context, id string) (progress.Milestone, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if m, ok := repo.db.table[id]; ok {
		return *m, nil
	}
	return progress.Milestone{}, progress.ErrNotFound
}

func (repo *progressRepository) QueryMilestonesByTopic(ctx context.Context, topicCode string) ([]progress.Milestone, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	milestones := make([]progress.Milestone, 0)
	for _, m := range repo.db.table {
		if m.TopicCode == topicCode {
			milestones = append(milestones, *m)
		}
	}
	sort.Slice(milestones, func(i, j int) bool { return milestones[i].DueDate.Before(milestones[j].DueDate) })
	return milestones, nil
}

func (repo *progressRepository) UpdateMilestone(ctx context.Context, m progress.Milestone) (progress.Milestone, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[m.ID]; !ok {
		return progress.Milestone{}, progress.ErrNotFound
	}
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *progressRepository) DeleteMilestonesByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
