package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/gradhub/thesisdesk/core/topic"
)

type topicRepository struct {
	db *topicTable
}

var _ topic.Repository = (*topicRepository)(nil) // interface compliance check

func NewTopicRepository(db *DB) topic.Repository {
	return &topicRepository{db: db.topic}
}

func (repo *topicRepository) query() []topic.Topic {
	topics := make([]topic.Topic, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		topics = append(topics, *t)
	}
	return topics
}

func (repo *topicRepository) CheckCodeUniqueness(ctx context.Context, code string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if _, ok := repo.db.table[code]; ok {
		return topic.ErrCodeExists
	}
	return nil
}

func (repo *topicRepository) CreateTopic(ctx context.Context, t topic.Topic) (topic.Topic, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = uuid.New().String()
	repo.db.table[t.Code] = &t
	return t, nil
}

func (repo *topicRepository) GetTopicByCode(ctx context.Context, code string) (topic.Topic, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[code]; ok {
		return *t, nil
	}
	return topic.Topic{}, topic.ErrNotFound
}

func (repo *topicRepository) QueryAllTopics(ctx context.Context) ([]topic.Topic, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *topicRepository) FilterTopics(ctx context.Context, filter topic.QueryFilter) ([]topic.Topic, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	topics := repo.query()

	if filter.StudentCode != "" {
		var filtered []topic.Topic
		for _, t := range topics {
			if t.StudentCode == filter.StudentCode {
				filtered = append(filtered, t)
			}
		}
		topics = filtered
	}
	if topics != nil && filter.SupervisorCode != "" {
		var filtered []topic.Topic
		for _, t := range topics {
			if t.SupervisorCode == filter.SupervisorCode {
				filtered = append(filtered, t)
			}
		}
		topics = filtered
	}
	if topics != nil && filter.Semester != "" {
		var filtered []topic.Topic
		for _, t := range topics {
			if t.Semester == filter.Semester {
				filtered = append(filtered, t)
			}
		}
		topics = filtered
	}
	if topics != nil && filter.Status != "" {
		var filtered []topic.Topic
		for _, t := range topics {
			if t.Status == filter.Status {
				filtered = append(filtered, t)
			}
		}
		topics = filtered
	}

	return topics, nil
}

func (repo *topicRepository) UpdateTopic(ctx context.Context, t topic.Topic) (topic.Topic, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[t.Code]; !ok {
		return topic.Topic{}, topic.ErrNotFound
	}
	repo.db.table[t.Code] = &t
	return t, nil
}

func (repo *topicRepository) DeleteTopicsByCode(ctx context.Context, codes ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, code := range codes {
		delete(repo.db.table, code)
	}
	return nil
}
