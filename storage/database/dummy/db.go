package dummydb

import (
	"sync"

	"github.com/gradhub/thesisdesk/core/committee"
	"github.com/gradhub/thesisdesk/core/progress"
	"github.com/gradhub/thesisdesk/core/topic"
	"github.com/gradhub/thesisdesk/core/user"
)

// DB is an in-memory stand-in for the real database, used in tests and
// local development.
type (
	DB struct {
		user      *userTable
		committee *committeeTable
		topic     *topicTable
		milestone *milestoneTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User // by id
	}

	committeeTable struct {
		sync.RWMutex
		table map[string]*committee.Committee // by code
	}

	topicTable struct {
		sync.RWMutex
		table map[string]*topic.Topic // by code
	}

	milestoneTable struct {
		sync.RWMutex
		table map[string]*progress.Milestone // by id
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:      &userTable{table: make(map[string]*user.User)},
		committee: &committeeTable{table: make(map[string]*committee.Committee)},
		topic:     &topicTable{table: make(map[string]*topic.Topic)},
		milestone: &milestoneTable{table: make(map[string]*progress.Milestone)},
	}
	return db, nil
}

// Reset drops all rows from all tables.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.committee.Lock()
	db.committee.table = make(map[string]*committee.Committee)
	db.committee.Unlock()

	db.topic.Lock()
	db.topic.table = make(map[string]*topic.Topic)
	db.topic.Unlock()

	db.milestone.Lock()
	db.milestone.table = make(map[string]*progress.Milestone)
	db.milestone.Unlock()
}
